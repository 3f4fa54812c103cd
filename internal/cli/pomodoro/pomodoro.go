// Package pomodoro holds the focus timer commands.
package pomodoro

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/logger"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/pomodoro"
)

type PomodoroCmd struct {
	Start   StartCmd   `cmd:"" help:"Run a focus or break session in the foreground."`
	Stats   StatsCmd   `cmd:"" help:"Show session totals for today, this week and all time."`
	History HistoryCmd `cmd:"" help:"List completed sessions."`
}

type StartCmd struct {
	Type        string        `short:"t" help:"Session type." enum:"work,shortBreak,longBreak" default:"work"`
	Task        string        `help:"Task ID to focus on."`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address while the timer runs."`
	Interval    time.Duration `hidden:"" default:"1s"`
}

var typeLabels = map[models.SessionType]string{
	models.SessionWork:       "Focus session",
	models.SessionShortBreak: "Short break",
	models.SessionLongBreak:  "Long break",
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	taskID := ""
	if c.Task != "" {
		ids := make([]string, 0, len(ctx.Snapshot().Tasks))
		for _, t := range ctx.Snapshot().Tasks {
			ids = append(ids, t.ID)
		}
		if taskID, err = cli.MatchID(c.Task, ids); err != nil {
			return err
		}
	}

	st := models.SessionType(c.Type)
	if ctx.Snapshot().Timer.Type != st {
		ctx.Dispatch(engine.SwitchSessionType{Type: st})
	}

	runCtx, cancel := context.WithCancel(ctx.Ctx)
	defer cancel()

	addr := c.MetricsAddr
	if addr == "" {
		addr = ctx.Config.MetricsAddr
	}
	if addr != "" {
		go func() {
			if err := ctx.Metrics.Serve(runCtx, addr); err != nil {
				logger.Warn("metrics endpoint stopped", "addr", addr, "error", err)
			}
		}()
	}

	before := user.Sparks
	s := ctx.Dispatch(engine.StartTimer{TaskID: taskID})
	ctx.Printf("%s started (%s).\n", typeLabels[st], pomodoro.FormatRemaining(s.Timer.Remaining))

	// Ticks go through the dispatcher's run loop; the observer hands each
	// resulting snapshot back here for output.
	updates := make(chan engine.Snapshot, 1)
	unsubscribe := ctx.Dispatcher.Subscribe(func(_ context.Context, ev engine.Event) {
		if _, ok := ev.Command.(engine.Tick); !ok {
			return
		}
		select {
		case updates <- ev.After:
		case <-runCtx.Done():
		}
	})
	defer unsubscribe()

	cmds := make(chan engine.Command)
	go engine.TickSource(runCtx, c.Interval, cmds)
	done := make(chan error, 1)
	go func() { done <- ctx.Dispatcher.Run(runCtx, cmds) }()

	for {
		select {
		case <-runCtx.Done():
			<-done
			ctx.Dispatch(engine.StopTimer{})
			ctx.Println("Session abandoned.")
			return nil
		case s = <-updates:
			if s.Timer.Active == nil {
				cancel()
				<-done
				ctx.Printf("✓ %s complete! +%d sparks (balance %d)\n", typeLabels[st], s.User.Sparks-before, s.User.Sparks)
				return nil
			}
			if s.Timer.Remaining%60 == 0 {
				ctx.Printf("  %s remaining\n", pomodoro.FormatRemaining(s.Timer.Remaining))
			}
		}
	}
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	stats := pomodoro.Summarize(ctx.Snapshot().Sessions, ctx.Now().In(ctx.Location()))
	for _, row := range []struct {
		label string
		b     pomodoro.Bucket
	}{
		{"Today", stats.Today},
		{"This week", stats.Week},
		{"All time", stats.Total},
	} {
		ctx.Printf("%-10s %s\n", row.label+":", formatBucket(row.b))
	}
	return nil
}

func formatBucket(b pomodoro.Bucket) string {
	return fmt.Sprintf("%d sessions, %d min (%d completed)", b.Sessions, b.TotalMinutes, b.CompletedSessions)
}

type HistoryCmd struct {
	Limit int `short:"n" help:"Maximum sessions to show." default:"20"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	s := ctx.Snapshot()
	if len(s.Sessions) == 0 {
		ctx.Println("No sessions yet.")
		return nil
	}
	loc := ctx.Location()
	for i, sess := range s.Sessions {
		if c.Limit > 0 && i >= c.Limit {
			break
		}
		line := fmt.Sprintf("  %s  %-12s %3d min", sess.StartedAt.In(loc).Format("2006-01-02 15:04"), sess.Type, sess.Duration)
		if t, ok := s.FindTask(sess.TaskID); ok {
			line += "  " + t.Title
		}
		ctx.Println(line)
	}
	return nil
}
