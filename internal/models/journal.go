package models

import "time"

type DiaryEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Date       time.Time `json:"date"`
	Content    string    `json:"content"`
	Mood       int       `json:"mood"` // 1-10
	AIInsights []string  `json:"aiInsights"`
	Tags       []string  `json:"tags"`
	Gratitude  []string  `json:"gratitude"`
	Goals      []string  `json:"goals"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MetricType string

const (
	MetricWater    MetricType = "water"
	MetricSleep    MetricType = "sleep"
	MetricExercise MetricType = "exercise"
	MetricWeight   MetricType = "weight"
	MetricSteps    MetricType = "steps"
)

type HealthMetric struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      MetricType `json:"type"`
	Value     float64    `json:"value"`
	Target    float64    `json:"target"`
	Unit      string     `json:"unit"`
	Date      time.Time  `json:"date"`
	CreatedAt time.Time  `json:"createdAt"`
}

type FinanceType string

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

type FinanceEntry struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Type        FinanceType `json:"type"`
	Amount      float64     `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
	MealSnack     Meal = "snack"
)

type NutritionEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Meal      Meal      `json:"meal"`
	Foods     []string  `json:"foods"`
	Calories  *int      `json:"calories"`
	Date      time.Time `json:"date"`
	Rating    int       `json:"rating"` // 1-5
	CreatedAt time.Time `json:"createdAt"`
}
