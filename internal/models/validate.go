package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalid = errors.New("invalid entity")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func requireTitle(kind, title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("%s title is required", kind)
	}
	return nil
}

func ValidateTask(t Task) error {
	if err := requireTitle("task", t.Title); err != nil {
		return err
	}
	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return invalid("unknown task priority %q", t.Priority)
	}
	if t.EstimatedTime != nil && *t.EstimatedTime < 0 {
		return invalid("estimated time cannot be negative")
	}
	return nil
}

func ValidateHabit(h Habit) error {
	if err := requireTitle("habit", h.Title); err != nil {
		return err
	}
	switch h.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return invalid("unknown habit frequency %q", h.Frequency)
	}
	if h.Streak < 0 {
		return invalid("habit streak cannot be negative")
	}
	for _, d := range h.TargetDays {
		if d < 0 || d > 6 {
			return invalid("target day %d out of range 0-6", d)
		}
	}
	return nil
}

func ValidateDiaryEntry(e DiaryEntry) error {
	if e.Mood < 1 || e.Mood > 10 {
		return invalid("mood must be between 1 and 10, got %d", e.Mood)
	}
	return nil
}

func ValidateHealthMetric(m HealthMetric) error {
	switch m.Type {
	case MetricWater, MetricSleep, MetricExercise, MetricWeight, MetricSteps:
	default:
		return invalid("unknown health metric type %q", m.Type)
	}
	if !finite(m.Value) || !finite(m.Target) {
		return invalid("health metric value and target must be finite numbers")
	}
	return nil
}

func ValidateFinanceEntry(e FinanceEntry) error {
	switch e.Type {
	case FinanceIncome, FinanceExpense:
	default:
		return invalid("unknown finance type %q", e.Type)
	}
	if !finite(e.Amount) {
		return invalid("amount must be a finite number")
	}
	if e.Amount < 0 {
		return invalid("amount cannot be negative")
	}
	return nil
}

func ValidateNutritionEntry(e NutritionEntry) error {
	switch e.Meal {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
	default:
		return invalid("unknown meal %q", e.Meal)
	}
	if len(e.Foods) == 0 {
		return invalid("at least one food is required")
	}
	if e.Rating < 1 || e.Rating > 5 {
		return invalid("rating must be between 1 and 5, got %d", e.Rating)
	}
	if e.Calories != nil && *e.Calories < 0 {
		return invalid("calories cannot be negative")
	}
	return nil
}

func ValidateAchievement(a Achievement) error {
	return requireTitle("achievement", a.Title)
}

func ValidateSessionType(t SessionType) error {
	switch t {
	case SessionWork, SessionShortBreak, SessionLongBreak:
		return nil
	}
	return invalid("unknown session type %q", t)
}
