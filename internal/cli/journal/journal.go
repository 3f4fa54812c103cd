// Package journal holds the diary, health, finance and nutrition commands.
// Each is append-only: add and list.
package journal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/utils"
)

type DiaryCmd struct {
	Add  DiaryAddCmd  `cmd:"" help:"Write a diary entry."`
	List DiaryListCmd `cmd:"" help:"List diary entries."`
}

type DiaryAddCmd struct {
	Content   string `arg:"" help:"Entry text."`
	Mood      int    `short:"m" help:"Mood from 1 to 10." required:""`
	Date      string `help:"Date (YYYY-MM-DD, default today)."`
	Tags      string `short:"t" help:"Comma-separated tags."`
	Gratitude string `short:"g" help:"Comma-separated things you are grateful for."`
	Goals     string `help:"Comma-separated goals."`
}

func (c *DiaryAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	e := models.DiaryEntry{
		Date:      date,
		Content:   c.Content,
		Mood:      c.Mood,
		Tags:      cli.SplitList(c.Tags),
		Gratitude: cli.SplitList(c.Gratitude),
		Goals:     cli.SplitList(c.Goals),
	}
	if err := models.ValidateDiaryEntry(e); err != nil {
		return err
	}
	ctx.Dispatch(engine.AddDiaryEntry{Entry: e})
	ctx.Printf("Saved diary entry for %s (mood %d/10)\n", utils.FormatDate(date, ctx.Location()), e.Mood)
	return nil
}

type DiaryListCmd struct {
	Limit int `short:"n" help:"Show at most this many entries." default:"10"`
}

func (c *DiaryListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	entries := ctx.Snapshot().DiaryEntries
	if len(entries) == 0 {
		ctx.Println("No diary entries found.")
		return nil
	}
	loc := ctx.Location()
	for i, e := range entries {
		if c.Limit > 0 && i >= c.Limit {
			break
		}
		ctx.Printf("%s  mood %2d/10  %s\n", utils.FormatDate(e.Date, loc), e.Mood, e.Content)
		if len(e.Gratitude) > 0 {
			ctx.Printf("    grateful for: %s\n", strings.Join(e.Gratitude, ", "))
		}
	}
	return nil
}

type HealthCmd struct {
	Add  HealthAddCmd  `cmd:"" help:"Record a health metric."`
	List HealthListCmd `cmd:"" help:"List health metrics."`
}

// defaultUnits are used when --unit is omitted.
var defaultUnits = map[models.MetricType]string{
	models.MetricWater:    "glasses",
	models.MetricSleep:    "hours",
	models.MetricExercise: "minutes",
	models.MetricWeight:   "kg",
	models.MetricSteps:    "steps",
}

type HealthAddCmd struct {
	Type   string  `arg:"" help:"Metric type (water|sleep|exercise|weight|steps)." enum:"water,sleep,exercise,weight,steps"`
	Value  float64 `arg:"" help:"Measured value."`
	Target float64 `help:"Daily target."`
	Unit   string  `help:"Unit label."`
	Date   string  `help:"Date (YYYY-MM-DD, default today)."`
}

func (c *HealthAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	m := models.HealthMetric{
		Type:   models.MetricType(c.Type),
		Value:  c.Value,
		Target: c.Target,
		Unit:   c.Unit,
		Date:   date,
	}
	if m.Unit == "" {
		m.Unit = defaultUnits[m.Type]
	}
	if err := models.ValidateHealthMetric(m); err != nil {
		return err
	}
	ctx.Dispatch(engine.AddHealthMetric{Metric: m})
	ctx.Printf("Recorded %s: %g %s\n", m.Type, m.Value, m.Unit)
	return nil
}

type HealthListCmd struct {
	Type string `help:"Only show this metric type."`
}

func (c *HealthListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	loc := ctx.Location()
	shown := 0
	for _, m := range ctx.Snapshot().HealthMetrics {
		if c.Type != "" && string(m.Type) != c.Type {
			continue
		}
		line := utils.FormatDate(m.Date, loc) + "  " + string(m.Type)
		if m.Target > 0 {
			ctx.Printf("%s  %g/%g %s (%.0f%%)\n", line, m.Value, m.Target, m.Unit, 100*m.Value/m.Target)
		} else {
			ctx.Printf("%s  %g %s\n", line, m.Value, m.Unit)
		}
		shown++
	}
	if shown == 0 {
		ctx.Println("No health metrics found.")
	}
	return nil
}

type FinanceCmd struct {
	Add  FinanceAddCmd  `cmd:"" help:"Record income or an expense."`
	List FinanceListCmd `cmd:"" help:"List finance entries with a balance."`
}

type FinanceAddCmd struct {
	Type        string  `arg:"" help:"Entry type (income|expense)." enum:"income,expense"`
	Amount      float64 `arg:"" help:"Amount (non-negative)."`
	Category    string  `short:"c" help:"Category." default:"General"`
	Description string  `short:"d" help:"Description."`
	Date        string  `help:"Date (YYYY-MM-DD, default today)."`
	Tags        string  `short:"t" help:"Comma-separated tags."`
}

func (c *FinanceAddCmd) Validate() error {
	if c.Amount < 0 {
		return errors.New("amount cannot be negative")
	}
	return nil
}

func (c *FinanceAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	e := models.FinanceEntry{
		Type:        models.FinanceType(c.Type),
		Amount:      c.Amount,
		Category:    c.Category,
		Description: c.Description,
		Date:        date,
		Tags:        cli.SplitList(c.Tags),
	}
	if err := models.ValidateFinanceEntry(e); err != nil {
		return err
	}
	ctx.Dispatch(engine.AddFinanceEntry{Entry: e})
	ctx.Printf("Recorded %s of %.2f (%s)\n", e.Type, e.Amount, e.Category)
	return nil
}

type FinanceListCmd struct{}

func (c *FinanceListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	entries := ctx.Snapshot().FinanceEntries
	if len(entries) == 0 {
		ctx.Println("No finance entries found.")
		return nil
	}
	loc := ctx.Location()
	var income, expense float64
	for _, e := range entries {
		sign := "-"
		if e.Type == models.FinanceIncome {
			sign = "+"
			income += e.Amount
		} else {
			expense += e.Amount
		}
		ctx.Printf("%s  %s%.2f  %s  %s\n", utils.FormatDate(e.Date, loc), sign, e.Amount, e.Category, e.Description)
	}
	ctx.Printf("\nIncome %.2f, expenses %.2f, balance %.2f\n", income, expense, income-expense)
	return nil
}

type NutritionCmd struct {
	Add  NutritionAddCmd  `cmd:"" help:"Log a meal."`
	List NutritionListCmd `cmd:"" help:"List logged meals."`
}

type NutritionAddCmd struct {
	Meal     string `arg:"" help:"Meal (breakfast|lunch|dinner|snack)." enum:"breakfast,lunch,dinner,snack"`
	Foods    string `arg:"" help:"Comma-separated foods."`
	Rating   int    `short:"r" help:"How it felt, 1 to 5." default:"3"`
	Calories int    `help:"Calories, if known."`
	Date     string `help:"Date (YYYY-MM-DD, default today)."`
}

func (c *NutritionAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	e := models.NutritionEntry{
		Meal:   models.Meal(c.Meal),
		Foods:  cli.SplitList(c.Foods),
		Rating: c.Rating,
		Date:   date,
	}
	if c.Calories > 0 {
		cal := c.Calories
		e.Calories = &cal
	}
	if err := models.ValidateNutritionEntry(e); err != nil {
		return err
	}
	ctx.Dispatch(engine.AddNutritionEntry{Entry: e})
	ctx.Printf("Logged %s: %s\n", e.Meal, strings.Join(e.Foods, ", "))
	return nil
}

type NutritionListCmd struct{}

func (c *NutritionListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	entries := ctx.Snapshot().NutritionEntries
	if len(entries) == 0 {
		ctx.Println("No meals logged.")
		return nil
	}
	loc := ctx.Location()
	for _, e := range entries {
		cal := ""
		if e.Calories != nil {
			cal = fmt.Sprintf(" %d kcal", *e.Calories)
		}
		ctx.Printf("%s  %-9s %s (%d/5)%s\n", utils.FormatDate(e.Date, loc), e.Meal, strings.Join(e.Foods, ", "), e.Rating, cal)
	}
	return nil
}
