package habits

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/config"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/storage"
)

func newTestContext(t *testing.T, now *time.Time) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()
	repo := storage.New(kv.NewTableStore(kv.NewMemory()))
	require.NoError(t, repo.Init(ctx))

	cfg := config.Default()
	cfg.Timezone = "UTC"
	c, err := cli.NewContext(ctx, cfg, repo, nil)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	c.Out = out
	c.Now = func() time.Time { return *now }
	c.Dispatch(engine.CompleteOnboarding{Data: models.OnboardingData{Name: "Alex"}})
	return c, out
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "", want: []int{}},
		{in: "mon,wed,fri", want: []int{1, 3, 5}},
		{in: "0, Saturday", want: []int{0, 6}},
		{in: "7", wantErr: true},
		{in: "someday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHabitStreakAcrossDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	c, out := newTestContext(t, &now)

	require.NoError(t, (&HabitAddCmd{Title: "Meditate", Frequency: "daily", Color: "#10B981", Days: "mon,tue"}).Run(c))
	assert.Contains(t, out.String(), "Added habit: Meditate (daily, +20 sparks)")
	id := c.Snapshot().Habits[0].ID

	out.Reset()
	require.NoError(t, (&HabitCompleteCmd{ID: id}).Run(c))
	assert.Contains(t, out.String(), "✓ Meditate done! Streak 1, +20 sparks (balance 120)")

	out.Reset()
	require.NoError(t, (&HabitCompleteCmd{ID: id}).Run(c))
	assert.Contains(t, out.String(), "already done today (streak 1)")

	out.Reset()
	require.NoError(t, (&HabitListCmd{}).Run(c))
	assert.Contains(t, out.String(), "[x] "+cli.ShortID(id)+"  Meditate (daily, streak 1, +20)")

	now = now.Add(24 * time.Hour)
	out.Reset()
	require.NoError(t, (&HabitCompleteCmd{ID: id}).Run(c))
	assert.Contains(t, out.String(), "Streak 2, +20 sparks (balance 140)")

	stored, ok, err := c.Repo.Habits.Get(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, stored.Streak)
	assert.Len(t, stored.CompletedDates, 2)
	assert.Equal(t, []int{1, 2}, stored.TargetDays)

	out.Reset()
	require.NoError(t, (&HabitDeleteCmd{ID: id}).Run(c))
	assert.Contains(t, out.String(), "Deleted habit: Meditate")
	assert.Empty(t, c.Snapshot().Habits)
}

func TestHabitAddRejectsBadDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	c, _ := newTestContext(t, &now)
	assert.Error(t, (&HabitAddCmd{Title: "Run", Frequency: "daily", Days: "funday"}).Run(c))
	assert.Empty(t, c.Snapshot().Habits)
}

func TestCompleteUsesConfiguredTimezone(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	c, out := newTestContext(t, &now)
	c.Config.Timezone = "Asia/Tokyo"

	s := c.Dispatch(engine.AddHabit{Habit: models.Habit{Title: "Stretch", Frequency: models.FrequencyDaily}})
	id := s.Habits[0].ID
	require.NoError(t, (&HabitCompleteCmd{ID: id}).Run(c))
	assert.Equal(t, 120, c.Snapshot().User.Sparks)

	// Both instants fall on March 11 in Tokyo.
	now = time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC)
	out.Reset()
	require.NoError(t, (&HabitListCmd{}).Run(c))
	assert.Contains(t, out.String(), "[x] "+cli.ShortID(id))

	out.Reset()
	require.NoError(t, (&HabitCompleteCmd{ID: id}).Run(c))
	assert.Equal(t, "Stretch is already done today (streak 1)\n", out.String())
	assert.Equal(t, 120, c.Snapshot().User.Sparks)

	h, ok, err := c.Repo.Habits.Get(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, h.Streak)
	assert.Len(t, h.CompletedDates, 1)
}
