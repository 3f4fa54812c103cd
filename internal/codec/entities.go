package codec

import (
	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/models"
)

var UserSchema = Schema{
	Entity: "user",
	Table:  constants.TableUsers,
	Fields: []Field{
		{"id", "id", KindString},
		{"name", "name", KindString},
		{"email", "email", KindString},
		{"sparks", "sparks", KindInt},
		{"level", "level", KindInt},
		{"streak", "streak", KindInt},
		{"joinDate", "join_date", KindTime},
		{"activeModules", "active_modules", KindStrings},
		{"preferences", "preferences", KindObject},
		{"onboardingCompleted", "onboarding_completed", KindBool},
	},
}

func EncodeUser(u models.User) kv.Record {
	return record(UserSchema, values{
		"id":                  u.ID,
		"name":                u.Name,
		"email":               u.Email,
		"sparks":              u.Sparks,
		"level":               u.Level,
		"streak":              u.Streak,
		"joinDate":            u.JoinDate,
		"activeModules":       u.ActiveModules,
		"preferences":         u.Preferences,
		"onboardingCompleted": u.OnboardingCompleted,
	})
}

func DecodeUser(r kv.Record) models.User {
	d := reader{UserSchema, r}
	u := models.User{
		ID:                  d.str("id"),
		Name:                d.str("name"),
		Email:               d.str("email"),
		Sparks:              d.int("sparks"),
		Level:               d.int("level"),
		Streak:              d.int("streak"),
		JoinDate:            d.time("joinDate"),
		ActiveModules:       d.strings("activeModules"),
		OnboardingCompleted: d.bool("onboardingCompleted"),
	}
	if !d.object("preferences", &u.Preferences) {
		u.Preferences = models.Preferences{}
	}
	return u
}

var TaskSchema = Schema{
	Entity: "task",
	Table:  constants.TableTasks,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"title", "title", KindString},
		{"description", "description", KindOptString},
		{"completed", "completed", KindBool},
		{"priority", "priority", KindString},
		{"dueDate", "due_date", KindOptTime},
		{"sparksReward", "sparks_reward", KindInt},
		{"category", "category", KindString},
		{"estimatedTime", "estimated_time", KindOptInt},
		{"tags", "tags", KindStrings},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodeTask(t models.Task) kv.Record {
	return record(TaskSchema, values{
		"id":            t.ID,
		"userId":        t.UserID,
		"title":         t.Title,
		"description":   t.Description,
		"completed":     t.Completed,
		"priority":      t.Priority,
		"dueDate":       t.DueDate,
		"sparksReward":  t.SparksReward,
		"category":      t.Category,
		"estimatedTime": t.EstimatedTime,
		"tags":          t.Tags,
		"createdAt":     t.CreatedAt,
	})
}

func DecodeTask(r kv.Record) models.Task {
	d := reader{TaskSchema, r}
	return models.Task{
		ID:            d.str("id"),
		UserID:        d.str("userId"),
		Title:         d.str("title"),
		Description:   d.str("description"),
		Completed:     d.bool("completed"),
		Priority:      models.Priority(d.str("priority")),
		DueDate:       d.optTime("dueDate"),
		SparksReward:  d.int("sparksReward"),
		Category:      d.str("category"),
		EstimatedTime: d.optInt("estimatedTime"),
		Tags:          d.strings("tags"),
		CreatedAt:     d.time("createdAt"),
	}
}

var HabitSchema = Schema{
	Entity: "habit",
	Table:  constants.TableHabits,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"title", "title", KindString},
		{"description", "description", KindOptString},
		{"frequency", "frequency", KindString},
		{"streak", "streak", KindInt},
		{"lastCompleted", "last_completed", KindOptTime},
		{"sparksReward", "sparks_reward", KindInt},
		{"color", "color", KindString},
		{"targetDays", "target_days", KindInts},
		{"completedDates", "completed_dates", KindTimes},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodeHabit(h models.Habit) kv.Record {
	return record(HabitSchema, values{
		"id":             h.ID,
		"userId":         h.UserID,
		"title":          h.Title,
		"description":    h.Description,
		"frequency":      h.Frequency,
		"streak":         h.Streak,
		"lastCompleted":  h.LastCompleted,
		"sparksReward":   h.SparksReward,
		"color":          h.Color,
		"targetDays":     h.TargetDays,
		"completedDates": h.CompletedDates,
		"createdAt":      h.CreatedAt,
	})
}

func DecodeHabit(r kv.Record) models.Habit {
	d := reader{HabitSchema, r}
	return models.Habit{
		ID:             d.str("id"),
		UserID:         d.str("userId"),
		Title:          d.str("title"),
		Description:    d.str("description"),
		Frequency:      models.Frequency(d.str("frequency")),
		Streak:         d.int("streak"),
		LastCompleted:  d.optTime("lastCompleted"),
		SparksReward:   d.int("sparksReward"),
		Color:          d.str("color"),
		TargetDays:     d.ints("targetDays"),
		CompletedDates: d.times("completedDates"),
		CreatedAt:      d.time("createdAt"),
	}
}

var DiaryEntrySchema = Schema{
	Entity: "diaryEntry",
	Table:  constants.TableDiaryEntries,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"date", "date", KindTime},
		{"content", "content", KindString},
		{"mood", "mood", KindInt},
		{"aiInsights", "ai_insights", KindStrings},
		{"tags", "tags", KindStrings},
		{"gratitude", "gratitude", KindStrings},
		{"goals", "goals", KindStrings},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodeDiaryEntry(e models.DiaryEntry) kv.Record {
	return record(DiaryEntrySchema, values{
		"id":         e.ID,
		"userId":     e.UserID,
		"date":       e.Date,
		"content":    e.Content,
		"mood":       e.Mood,
		"aiInsights": e.AIInsights,
		"tags":       e.Tags,
		"gratitude":  e.Gratitude,
		"goals":      e.Goals,
		"createdAt":  e.CreatedAt,
	})
}

func DecodeDiaryEntry(r kv.Record) models.DiaryEntry {
	d := reader{DiaryEntrySchema, r}
	return models.DiaryEntry{
		ID:         d.str("id"),
		UserID:     d.str("userId"),
		Date:       d.time("date"),
		Content:    d.str("content"),
		Mood:       d.int("mood"),
		AIInsights: d.strings("aiInsights"),
		Tags:       d.strings("tags"),
		Gratitude:  d.strings("gratitude"),
		Goals:      d.strings("goals"),
		CreatedAt:  d.time("createdAt"),
	}
}

var HealthMetricSchema = Schema{
	Entity: "healthMetric",
	Table:  constants.TableHealthMetrics,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"type", "type", KindString},
		{"value", "value", KindFloat},
		{"target", "target", KindFloat},
		{"unit", "unit", KindString},
		{"date", "date", KindTime},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodeHealthMetric(m models.HealthMetric) kv.Record {
	return record(HealthMetricSchema, values{
		"id":        m.ID,
		"userId":    m.UserID,
		"type":      m.Type,
		"value":     m.Value,
		"target":    m.Target,
		"unit":      m.Unit,
		"date":      m.Date,
		"createdAt": m.CreatedAt,
	})
}

func DecodeHealthMetric(r kv.Record) models.HealthMetric {
	d := reader{HealthMetricSchema, r}
	return models.HealthMetric{
		ID:        d.str("id"),
		UserID:    d.str("userId"),
		Type:      models.MetricType(d.str("type")),
		Value:     d.float("value"),
		Target:    d.float("target"),
		Unit:      d.str("unit"),
		Date:      d.time("date"),
		CreatedAt: d.time("createdAt"),
	}
}

var FinanceEntrySchema = Schema{
	Entity: "financeEntry",
	Table:  constants.TableFinanceEntries,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"type", "type", KindString},
		{"amount", "amount", KindFloat},
		{"category", "category", KindString},
		{"description", "description", KindString},
		{"date", "date", KindTime},
		{"tags", "tags", KindStrings},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodeFinanceEntry(e models.FinanceEntry) kv.Record {
	return record(FinanceEntrySchema, values{
		"id":          e.ID,
		"userId":      e.UserID,
		"type":        e.Type,
		"amount":      e.Amount,
		"category":    e.Category,
		"description": e.Description,
		"date":        e.Date,
		"tags":        e.Tags,
		"createdAt":   e.CreatedAt,
	})
}

func DecodeFinanceEntry(r kv.Record) models.FinanceEntry {
	d := reader{FinanceEntrySchema, r}
	return models.FinanceEntry{
		ID:          d.str("id"),
		UserID:      d.str("userId"),
		Type:        models.FinanceType(d.str("type")),
		Amount:      d.float("amount"),
		Category:    d.str("category"),
		Description: d.str("description"),
		Date:        d.time("date"),
		Tags:        d.strings("tags"),
		CreatedAt:   d.time("createdAt"),
	}
}

var NutritionEntrySchema = Schema{
	Entity: "nutritionEntry",
	Table:  constants.TableNutritionEntries,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"meal", "meal", KindString},
		{"foods", "foods", KindStrings},
		{"calories", "calories", KindOptInt},
		{"date", "date", KindTime},
		{"rating", "rating", KindInt},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodeNutritionEntry(e models.NutritionEntry) kv.Record {
	return record(NutritionEntrySchema, values{
		"id":        e.ID,
		"userId":    e.UserID,
		"meal":      e.Meal,
		"foods":     e.Foods,
		"calories":  e.Calories,
		"date":      e.Date,
		"rating":    e.Rating,
		"createdAt": e.CreatedAt,
	})
}

func DecodeNutritionEntry(r kv.Record) models.NutritionEntry {
	d := reader{NutritionEntrySchema, r}
	return models.NutritionEntry{
		ID:        d.str("id"),
		UserID:    d.str("userId"),
		Meal:      models.Meal(d.str("meal")),
		Foods:     d.strings("foods"),
		Calories:  d.optInt("calories"),
		Date:      d.time("date"),
		Rating:    d.int("rating"),
		CreatedAt: d.time("createdAt"),
	}
}

var AchievementSchema = Schema{
	Entity: "achievement",
	Table:  constants.TableAchievements,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"title", "title", KindString},
		{"description", "description", KindString},
		{"icon", "icon", KindString},
		{"sparksReward", "sparks_reward", KindInt},
		{"unlockedAt", "unlocked_at", KindOptTime},
		{"category", "category", KindString},
		{"progress", "progress", KindOptInt},
		{"target", "target", KindOptInt},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodeAchievement(a models.Achievement) kv.Record {
	return record(AchievementSchema, values{
		"id":           a.ID,
		"userId":       a.UserID,
		"title":        a.Title,
		"description":  a.Description,
		"icon":         a.Icon,
		"sparksReward": a.SparksReward,
		"unlockedAt":   a.UnlockedAt,
		"category":     a.Category,
		"progress":     a.Progress,
		"target":       a.Target,
		"createdAt":    a.CreatedAt,
	})
}

func DecodeAchievement(r kv.Record) models.Achievement {
	d := reader{AchievementSchema, r}
	return models.Achievement{
		ID:           d.str("id"),
		UserID:       d.str("userId"),
		Title:        d.str("title"),
		Description:  d.str("description"),
		Icon:         d.str("icon"),
		SparksReward: d.int("sparksReward"),
		UnlockedAt:   d.optTime("unlockedAt"),
		Category:     d.str("category"),
		Progress:     d.optInt("progress"),
		Target:       d.optInt("target"),
		CreatedAt:    d.time("createdAt"),
	}
}

var PomodoroSessionSchema = Schema{
	Entity: "pomodoroSession",
	Table:  constants.TablePomodoroSessions,
	Fields: []Field{
		{"id", "id", KindString},
		{"userId", "user_id", KindString},
		{"taskId", "task_id", KindOptString},
		{"duration", "duration", KindInt},
		{"type", "type", KindString},
		{"completed", "completed", KindBool},
		{"startedAt", "started_at", KindTime},
		{"completedAt", "completed_at", KindOptTime},
		{"createdAt", "created_at", KindTime},
	},
}

func EncodePomodoroSession(s models.PomodoroSession) kv.Record {
	return record(PomodoroSessionSchema, values{
		"id":          s.ID,
		"userId":      s.UserID,
		"taskId":      s.TaskID,
		"duration":    s.Duration,
		"type":        s.Type,
		"completed":   s.Completed,
		"startedAt":   s.StartedAt,
		"completedAt": s.CompletedAt,
		"createdAt":   s.CreatedAt,
	})
}

func DecodePomodoroSession(r kv.Record) models.PomodoroSession {
	d := reader{PomodoroSessionSchema, r}
	return models.PomodoroSession{
		ID:          d.str("id"),
		UserID:      d.str("userId"),
		TaskID:      d.str("taskId"),
		Duration:    d.int("duration"),
		Type:        models.SessionType(d.str("type")),
		Completed:   d.bool("completed"),
		StartedAt:   d.time("startedAt"),
		CompletedAt: d.optTime("completedAt"),
		CreatedAt:   d.time("createdAt"),
	}
}

// Schemas lists every entity schema.
var Schemas = []Schema{
	UserSchema,
	TaskSchema,
	HabitSchema,
	DiaryEntrySchema,
	HealthMetricSchema,
	FinanceEntrySchema,
	NutritionEntrySchema,
	AchievementSchema,
	PomodoroSessionSchema,
}
