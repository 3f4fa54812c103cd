// Package metrics exposes Prometheus instruments on a private registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/logger"
)

const namespace = "neuroflow"

type Metrics struct {
	Registry *prometheus.Registry

	CommandsHandled   *prometheus.CounterVec
	MutationsApplied  *prometheus.CounterVec
	MutationFailures  *prometheus.CounterVec
	SessionsCompleted *prometheus.CounterVec
	Sparks            prometheus.Gauge
	MediumDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		CommandsHandled: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Commands processed by the dispatcher",
			},
			[]string{"command"},
		),
		MutationsApplied: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_applied_total",
				Help:      "Mutations written to the repository",
			},
			[]string{"kind", "op"},
		),
		MutationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutation_failures_total",
				Help:      "Mutations that failed to persist",
			},
			[]string{"kind", "op"},
		),
		SessionsCompleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pomodoro_sessions_completed_total",
				Help:      "Completed pomodoro sessions",
			},
			[]string{"type"},
		),
		Sparks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sparks_balance",
			Help:      "Current sparks balance of the loaded user",
		}),
		MediumDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "kv_operation_duration_seconds",
				Help:      "Key-value medium operation latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to ~1.6s
			},
			[]string{"driver", "op"},
		),
	}
}

func (m *Metrics) CommandHandled(name string) {
	m.CommandsHandled.WithLabelValues(name).Inc()
}

func (m *Metrics) MutationApplied(kind, op string) {
	m.MutationsApplied.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) MutationFailed(kind, op string) {
	m.MutationFailures.WithLabelValues(kind, op).Inc()
}

func (m *Metrics) SessionCompleted(sessionType string) {
	m.SessionsCompleted.WithLabelValues(sessionType).Inc()
}

func (m *Metrics) SparksBalance(n int) {
	m.Sparks.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// instrumentedMedium times every medium call.
type instrumentedMedium struct {
	kv.Medium
	hist *prometheus.HistogramVec
}

// InstrumentMedium wraps m so each Get and Set is observed in MediumDuration.
func (m *Metrics) InstrumentMedium(medium kv.Medium) kv.Medium {
	return &instrumentedMedium{Medium: medium, hist: m.MediumDuration}
}

func (i *instrumentedMedium) observe(op string, start time.Time) {
	i.hist.WithLabelValues(string(i.Medium.Driver()), op).Observe(time.Since(start).Seconds())
}

func (i *instrumentedMedium) Get(ctx context.Context, key string) ([]byte, bool, error) {
	defer i.observe("get", time.Now())
	return i.Medium.Get(ctx, key)
}

func (i *instrumentedMedium) Set(ctx context.Context, key string, value []byte) error {
	defer i.observe("set", time.Now())
	return i.Medium.Set(ctx, key, value)
}
