package rewards

import (
	"bytes"
	"context"
	"strings"
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

func newTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
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
	c.Now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	c.Dispatch(engine.CompleteOnboarding{Data: models.OnboardingData{Name: "Alex"}})
	return c, out
}

func TestSparksAdd(t *testing.T) {
	c, out := newTestContext(t)

	require.NoError(t, (&SparksAddCmd{Delta: 15}).Run(c))
	assert.Equal(t, 115, c.Snapshot().User.Sparks)
	assert.Contains(t, out.String(), "Added 15 sparks. Balance: 115")

	out.Reset()
	require.NoError(t, (&SparksAddCmd{Delta: -40}).Run(c))
	assert.Equal(t, 75, c.Snapshot().User.Sparks)
	assert.Contains(t, out.String(), "Spent 40 sparks. Balance: 75")
}

func TestSparksAddValidate(t *testing.T) {
	assert.Error(t, (&SparksAddCmd{}).Validate())
	assert.NoError(t, (&SparksAddCmd{Delta: -1}).Validate())
}

func TestUnlockNewAchievement(t *testing.T) {
	c, out := newTestContext(t)

	cmd := &AchievementUnlockCmd{Achievement: "First Steps", Icon: "🌱", Reward: 30, Category: "General"}
	require.NoError(t, cmd.Run(c))

	s := c.Snapshot()
	require.Len(t, s.Achievements, 1)
	assert.True(t, s.Achievements[0].Unlocked())
	assert.Equal(t, 130, s.User.Sparks)
	assert.Contains(t, out.String(), "Achievement unlocked: First Steps (+30 sparks, balance 130)")

	stored, err := c.Repo.Achievements.ListForOwner(c.Ctx, s.User.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestUnlockLockedAchievement(t *testing.T) {
	c, out := newTestContext(t)
	s := c.Snapshot()
	target := 10
	progress := 4
	locked := models.Achievement{
		ID:           "0190b1a2-0000-7000-8000-00000000beef",
		UserID:       s.User.ID,
		Title:        "Focused",
		Icon:         "🎯",
		SparksReward: 50,
		Category:     "Focus",
		Target:       &target,
		Progress:     &progress,
	}
	c.Dispatch(engine.LoadUserData{Data: models.UserData{User: s.User, Achievements: []models.Achievement{locked}}})

	out.Reset()
	require.NoError(t, (&AchievementListCmd{}).Run(c))
	assert.Contains(t, out.String(), "🔒 0000beef  Focused (+50, 4/10)")

	out.Reset()
	require.NoError(t, (&AchievementUnlockCmd{Achievement: "beef"}).Run(c))
	a, ok := c.Snapshot().FindAchievement(locked.ID)
	require.True(t, ok)
	assert.True(t, a.Unlocked())
	assert.Equal(t, 10, *a.Progress)
	assert.Equal(t, 150, c.Snapshot().User.Sparks)
	assert.Contains(t, out.String(), "Achievement unlocked: Focused (+50 sparks, balance 150)")

	out.Reset()
	require.NoError(t, (&AchievementListCmd{}).Run(c))
	assert.Contains(t, out.String(), "🎯 0000beef  Focused (+50, unlocked 2026-03-10)")
}

func TestUnlockRequiresTitle(t *testing.T) {
	c, _ := newTestContext(t)
	err := (&AchievementUnlockCmd{Achievement: "   "}).Run(c)
	assert.Error(t, err)
	assert.Empty(t, c.Snapshot().Achievements)
}

func TestAchievementListEmpty(t *testing.T) {
	c, out := newTestContext(t)
	require.NoError(t, (&AchievementListCmd{}).Run(c))
	assert.Equal(t, "No achievements yet.\n", out.String())
}

func TestRewardList(t *testing.T) {
	c, out := newTestContext(t)
	require.NoError(t, (&RewardListCmd{}).Run(c))

	got := out.String()
	assert.Contains(t, got, "Balance: 100 ✨")
	assert.Contains(t, got, "💗 1  30 minute break (50 sparks, wellness)")
	assert.Contains(t, got, "🛍 5  Online purchase (150 sparks, need 50 more)")
	assert.Contains(t, got, "🔒 6  Day off (300 sparks, unlocks at 200)")

	out.Reset()
	require.NoError(t, (&RewardListCmd{Category: "social"}).Run(c))
	assert.Contains(t, out.String(), "Coffee break")
	assert.NotContains(t, out.String(), "30 minute break")
}

func TestRewardListValidate(t *testing.T) {
	assert.NoError(t, (&RewardListCmd{}).Validate())
	assert.NoError(t, (&RewardListCmd{Category: "wellness"}).Validate())
	assert.Error(t, (&RewardListCmd{Category: "travel"}).Validate())
}

func TestRewardClaimAffordable(t *testing.T) {
	c, out := newTestContext(t)
	require.NoError(t, (&RewardClaimCmd{Reward: "1", Yes: true}).Run(c))

	assert.Equal(t, 50, c.Snapshot().User.Sparks)
	assert.Contains(t, out.String(), "Claimed 30 minute break (-50 sparks, balance 50)")

	stored, err := c.Repo.Users.Get(context.Background(), c.Snapshot().User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 50, stored.Sparks)
}

func TestRewardClaimConfirm(t *testing.T) {
	c, out := newTestContext(t)
	c.In = strings.NewReader("n\n")
	require.NoError(t, (&RewardClaimCmd{Reward: "2"}).Run(c))
	assert.Contains(t, out.String(), "Claim cancelled.")
	assert.Equal(t, 100, c.Snapshot().User.Sparks)

	c.In = strings.NewReader("y\n")
	require.NoError(t, (&RewardClaimCmd{Reward: "2"}).Run(c))
	assert.Equal(t, 25, c.Snapshot().User.Sparks)
}

func TestRewardClaimRejected(t *testing.T) {
	tests := []struct {
		name   string
		reward string
		want   string
	}{
		{"unaffordable", "5", "not enough sparks"},
		{"locked", "6", "unlocks at 200"},
		{"unknown", "99", "unknown reward"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			err := (&RewardClaimCmd{Reward: tt.reward, Yes: true}).Run(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 100, c.Snapshot().User.Sparks)
		})
	}
}
