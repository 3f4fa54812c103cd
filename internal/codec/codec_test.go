package codec

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/models"
)

var (
	day1 = time.Date(2024, 3, 9, 7, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	made = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	due  = time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)
)

func intPtr(n int) *int { return &n }

func fixtureUser() models.User {
	return models.User{
		ID:            "user-1",
		Name:          "Alex",
		Email:         "alex@example.com",
		Sparks:        -20,
		Level:         2,
		Streak:        4,
		JoinDate:      made,
		ActiveModules: []string{"tasks", "habits"},
		Preferences: models.Preferences{
			Theme:         models.ThemeDark,
			Notifications: true,
			Gamification:  true,
			FocusAreas:    []string{"productivity"},
			Goals:         []string{"ship v1"},
		},
		OnboardingCompleted: true,
	}
}

func fixtureTask() models.Task {
	return models.Task{
		ID:            "task-1",
		UserID:        "user-1",
		Title:         "Write report",
		Description:   "Quarterly numbers",
		Priority:      models.PriorityHigh,
		DueDate:       &due,
		SparksReward:  25,
		Category:      "Work",
		EstimatedTime: intPtr(45),
		Tags:          []string{"deep", "work"},
		CreatedAt:     made,
	}
}

func fixtureHabit() models.Habit {
	return models.Habit{
		ID:             "habit-1",
		UserID:         "user-1",
		Title:          "Meditate",
		Frequency:      models.FrequencyDaily,
		Streak:         2,
		LastCompleted:  &day2,
		SparksReward:   20,
		Color:          "#10B981",
		TargetDays:     []int{1, 3, 5},
		CompletedDates: []time.Time{day1, day2},
		CreatedAt:      made,
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("user", func(t *testing.T) {
		u := fixtureUser()
		assert.Equal(t, u, DecodeUser(EncodeUser(u)))
	})
	t.Run("task", func(t *testing.T) {
		task := fixtureTask()
		assert.Equal(t, task, DecodeTask(EncodeTask(task)))
	})
	t.Run("task without optionals", func(t *testing.T) {
		task := models.Task{ID: "t", UserID: "u", Title: "x", Priority: models.PriorityLow, Tags: []string{}, CreatedAt: made}
		assert.Equal(t, task, DecodeTask(EncodeTask(task)))
	})
	t.Run("habit", func(t *testing.T) {
		h := fixtureHabit()
		assert.Equal(t, h, DecodeHabit(EncodeHabit(h)))
	})
	t.Run("diary entry", func(t *testing.T) {
		e := models.DiaryEntry{
			ID: "d1", UserID: "user-1", Date: day1, Content: "Good day", Mood: 8,
			AIInsights: []string{"sleep helped"}, Tags: []string{"calm"},
			Gratitude: []string{"coffee"}, Goals: []string{"walk"}, CreatedAt: made,
		}
		assert.Equal(t, e, DecodeDiaryEntry(EncodeDiaryEntry(e)))
	})
	t.Run("health metric", func(t *testing.T) {
		m := models.HealthMetric{
			ID: "h1", UserID: "user-1", Type: models.MetricWater, Value: 2.5, Target: 3,
			Unit: "L", Date: day1, CreatedAt: made,
		}
		assert.Equal(t, m, DecodeHealthMetric(EncodeHealthMetric(m)))
	})
	t.Run("finance entry", func(t *testing.T) {
		e := models.FinanceEntry{
			ID: "f1", UserID: "user-1", Type: models.FinanceExpense, Amount: 12.75,
			Category: "Food", Description: "Lunch", Date: day1, Tags: []string{"work"}, CreatedAt: made,
		}
		assert.Equal(t, e, DecodeFinanceEntry(EncodeFinanceEntry(e)))
	})
	t.Run("nutrition entry", func(t *testing.T) {
		e := models.NutritionEntry{
			ID: "n1", UserID: "user-1", Meal: models.MealBreakfast, Foods: []string{"oats", "berries"},
			Calories: intPtr(420), Date: day1, Rating: 4, CreatedAt: made,
		}
		assert.Equal(t, e, DecodeNutritionEntry(EncodeNutritionEntry(e)))
	})
	t.Run("achievement", func(t *testing.T) {
		a := models.Achievement{
			ID: "a1", UserID: "user-1", Title: "First Steps", Description: "Complete a task",
			Icon: "star", SparksReward: 50, UnlockedAt: &day2, Category: "tasks",
			Progress: intPtr(1), Target: intPtr(1), CreatedAt: made,
		}
		assert.Equal(t, a, DecodeAchievement(EncodeAchievement(a)))
	})
	t.Run("pomodoro session", func(t *testing.T) {
		s := models.PomodoroSession{
			ID: "p1", UserID: "user-1", TaskID: "task-1", Duration: 25, Type: models.SessionWork,
			Completed: true, StartedAt: day1, CompletedAt: &day2, CreatedAt: made,
		}
		assert.Equal(t, s, DecodePomodoroSession(EncodePomodoroSession(s)))
	})
}

// Round-tripping through the table store turns numbers into json.Number and
// must still decode to the same entity.
func TestRoundTripThroughJSON(t *testing.T) {
	rec := EncodeTask(fixtureTask())
	raw, err := json.Marshal([]kv.Record{rec})
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var back []kv.Record
	require.NoError(t, dec.Decode(&back))
	assert.Equal(t, fixtureTask(), DecodeTask(back[0]))

	var plain []kv.Record
	require.NoError(t, json.Unmarshal(raw, &plain))
	assert.Equal(t, fixtureTask(), DecodeTask(plain[0]))
}

func TestSchemasAreTotal(t *testing.T) {
	byEntity := map[string]any{
		UserSchema.Entity:            models.User{},
		TaskSchema.Entity:            models.Task{},
		HabitSchema.Entity:           models.Habit{},
		DiaryEntrySchema.Entity:      models.DiaryEntry{},
		HealthMetricSchema.Entity:    models.HealthMetric{},
		FinanceEntrySchema.Entity:    models.FinanceEntry{},
		NutritionEntrySchema.Entity:  models.NutritionEntry{},
		AchievementSchema.Entity:     models.Achievement{},
		PomodoroSessionSchema.Entity: models.PomodoroSession{},
	}
	require.Len(t, Schemas, len(byEntity))

	for _, s := range Schemas {
		t.Run(s.Entity, func(t *testing.T) {
			model, ok := byEntity[s.Entity]
			require.True(t, ok, "no model registered for %s", s.Entity)

			var tags []string
			rt := reflect.TypeOf(model)
			for i := 0; i < rt.NumField(); i++ {
				tag := strings.Split(rt.Field(i).Tag.Get("json"), ",")[0]
				require.NotEmpty(t, tag, "%s.%s has no json tag", rt.Name(), rt.Field(i).Name)
				tags = append(tags, tag)
			}

			var logical, stored []string
			for _, f := range s.Fields {
				logical = append(logical, f.Logical)
				stored = append(stored, f.Stored)
			}
			assert.ElementsMatch(t, tags, logical, "schema must cover every model field")
			assert.Len(t, uniq(stored), len(stored), "stored names must be unique")
			for _, name := range stored {
				assert.Equal(t, strings.ToLower(name), name, "stored names are snake_case")
			}
		})
	}
}

func uniq(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[s] = true
	}
	return out
}

func TestEncodeWritesEveryStoredField(t *testing.T) {
	rec := EncodeHabit(models.Habit{})
	for _, f := range HabitSchema.Fields {
		_, ok := rec[f.Stored]
		assert.True(t, ok, "missing stored field %s", f.Stored)
	}
	assert.Equal(t, "[]", rec["completed_dates"])
	assert.Equal(t, "[]", rec["target_days"])
	assert.Nil(t, rec["last_completed"])
}

func TestDecodeCorruptFieldsFallBack(t *testing.T) {
	h := DecodeHabit(kv.Record{
		"id":              "h1",
		"streak":          "lots",
		"last_completed":  "yesterday",
		"target_days":     "{not json",
		"completed_dates": 42,
	})
	assert.Equal(t, "h1", h.ID)
	assert.Zero(t, h.Streak)
	assert.Nil(t, h.LastCompleted)
	assert.Equal(t, []int{}, h.TargetDays)
	assert.Equal(t, []time.Time{}, h.CompletedDates)
	assert.Equal(t, []string{}, DecodeTask(kv.Record{}).Tags)

	u := DecodeUser(kv.Record{"id": "u1", "preferences": "}{"})
	assert.Equal(t, models.Preferences{}, u.Preferences)
}

func TestDecodeBoolForms(t *testing.T) {
	tests := []struct {
		stored any
		want   bool
	}{
		{true, true},
		{false, false},
		{json.Number("1"), true},
		{json.Number("0"), false},
		{float64(1), true},
		{"true", true},
		{"false", false},
		{"1", true},
		{nil, false},
	}
	for _, tt := range tests {
		got := DecodeTask(kv.Record{"completed": tt.stored}).Completed
		assert.Equal(t, tt.want, got, "stored %#v", tt.stored)
	}
}

func TestDecodeNativeLists(t *testing.T) {
	task := DecodeTask(kv.Record{"tags": []any{"a", "b"}})
	assert.Equal(t, []string{"a", "b"}, task.Tags)
}

func TestEncodePatch(t *testing.T) {
	now := day2
	rec, err := Encode(HabitSchema, Patch{
		"streak":         3,
		"lastCompleted":  &now,
		"completedDates": []time.Time{day1, day2},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"streak":          3,
		"last_completed":  "2024-03-10T07:00:00Z",
		"completed_dates": `["2024-03-09T07:00:00Z","2024-03-10T07:00:00Z"]`,
	}, rec)

	rec, err = Encode(UserSchema, Patch{"preferences": models.Preferences{Theme: models.ThemeLight}})
	require.NoError(t, err)
	assert.Contains(t, rec["preferences"], `"theme":"light"`)

	rec, err = Encode(TaskSchema, Patch{"priority": models.PriorityLow, "dueDate": (*time.Time)(nil)})
	require.NoError(t, err)
	assert.Equal(t, "low", rec["priority"])
	assert.Nil(t, rec["due_date"])
}

func TestEncodePatchRejects(t *testing.T) {
	_, err := Encode(TaskSchema, Patch{"dueDateTypo": due})
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = Encode(TaskSchema, Patch{"due_date": due})
	require.ErrorIs(t, err, ErrUnknownField, "stored names are not logical names")

	_, err = Encode(TaskSchema, Patch{"completed": "yes"})
	require.ErrorIs(t, err, ErrFieldType)
}

func TestStoredShapeGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for name, rec := range map[string]kv.Record{
		"task_record":  EncodeTask(fixtureTask()),
		"habit_record": EncodeHabit(fixtureHabit()),
	} {
		raw, err := json.MarshalIndent(rec, "", "  ")
		require.NoError(t, err)
		g.Assert(t, name, append(raw, '\n'))
	}
}
