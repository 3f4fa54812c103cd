package journal

import (
	"bytes"
	"context"
	"math"
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
	c.Now = func() time.Time { return time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC) }
	c.Dispatch(engine.CompleteOnboarding{Data: models.OnboardingData{Name: "Alex"}})
	return c, out
}

func TestDiary(t *testing.T) {
	c, out := newTestContext(t)

	require.NoError(t, (&DiaryAddCmd{Content: "Good focus today", Mood: 8, Gratitude: "coffee, sunshine"}).Run(c))
	assert.Contains(t, out.String(), "Saved diary entry for 2026-03-10 (mood 8/10)")

	assert.Error(t, (&DiaryAddCmd{Content: "??", Mood: 11}).Run(c))

	out.Reset()
	require.NoError(t, (&DiaryListCmd{Limit: 10}).Run(c))
	assert.Contains(t, out.String(), "2026-03-10  mood  8/10  Good focus today")
	assert.Contains(t, out.String(), "grateful for: coffee, sunshine")

	entries, err := c.Repo.DiaryEntries.ListForOwner(context.Background(), c.Snapshot().User.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"coffee", "sunshine"}, entries[0].Gratitude)
}

func TestHealth(t *testing.T) {
	c, out := newTestContext(t)

	require.NoError(t, (&HealthAddCmd{Type: "water", Value: 6, Target: 8}).Run(c))
	assert.Contains(t, out.String(), "Recorded water: 6 glasses")
	require.NoError(t, (&HealthAddCmd{Type: "steps", Value: 4200, Date: "2026-03-09"}).Run(c))

	out.Reset()
	require.NoError(t, (&HealthListCmd{Type: "water"}).Run(c))
	assert.Contains(t, out.String(), "2026-03-10  water  6/8 glasses (75%)")
	assert.NotContains(t, out.String(), "steps")

	out.Reset()
	require.NoError(t, (&HealthListCmd{Type: "sleep"}).Run(c))
	assert.Contains(t, out.String(), "No health metrics found.")
}

func TestFinance(t *testing.T) {
	c, out := newTestContext(t)

	require.NoError(t, (&FinanceAddCmd{Type: "income", Amount: 100, Category: "Salary"}).Run(c))
	require.NoError(t, (&FinanceAddCmd{Type: "expense", Amount: 30.5, Category: "Food", Description: "groceries"}).Run(c))
	assert.Error(t, (&FinanceAddCmd{Type: "expense", Amount: -1}).Validate())

	out.Reset()
	require.NoError(t, (&FinanceListCmd{}).Run(c))
	assert.Contains(t, out.String(), "-30.50  Food  groceries")
	assert.Contains(t, out.String(), "Income 100.00, expenses 30.50, balance 69.50")
}

func TestRejectsNonFiniteValues(t *testing.T) {
	c, _ := newTestContext(t)

	assert.Error(t, (&HealthAddCmd{Type: "water", Value: math.Inf(1)}).Run(c))
	assert.Error(t, (&HealthAddCmd{Type: "sleep", Value: 7, Target: math.NaN()}).Run(c))
	assert.Error(t, (&FinanceAddCmd{Type: "income", Amount: math.NaN()}).Run(c))

	s := c.Snapshot()
	assert.Empty(t, s.HealthMetrics)
	assert.Empty(t, s.FinanceEntries)
	stored, err := c.Repo.FinanceEntries.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestNutrition(t *testing.T) {
	c, out := newTestContext(t)

	require.NoError(t, (&NutritionAddCmd{Meal: "lunch", Foods: "salad, bread", Rating: 4, Calories: 520}).Run(c))
	assert.Contains(t, out.String(), "Logged lunch: salad, bread")

	assert.Error(t, (&NutritionAddCmd{Meal: "lunch", Foods: " , ", Rating: 4}).Run(c), "foods must not be empty")
	assert.Error(t, (&NutritionAddCmd{Meal: "lunch", Foods: "soup", Rating: 6}).Run(c))

	out.Reset()
	require.NoError(t, (&NutritionListCmd{}).Run(c))
	assert.Contains(t, out.String(), "salad, bread (4/5) 520 kcal")
	assert.Len(t, c.Snapshot().NutritionEntries, 1)
}
