package habits

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/streak"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits with their streaks."`
	Complete HabitCompleteCmd `cmd:"" help:"Mark a habit done for today."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Description string `short:"d" help:"Longer description."`
	Frequency   string `short:"f" help:"Frequency (daily|weekly|monthly)." enum:"daily,weekly,monthly" default:"daily"`
	Color       string `help:"Display color." default:"#10B981"`
	Days        string `help:"Comma-separated target weekdays (0=Sunday ... 6=Saturday, or names)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}

	days, err := ParseWeekdays(c.Days)
	if err != nil {
		return err
	}
	h := models.Habit{
		Title:       c.Title,
		Description: c.Description,
		Frequency:   models.Frequency(c.Frequency),
		Color:       c.Color,
		TargetDays:  days,
	}
	if err := models.ValidateHabit(h); err != nil {
		return err
	}

	s := ctx.Dispatch(engine.AddHabit{Habit: h})
	added := s.Habits[0]
	ctx.Printf("Added habit: %s (%s, +%d sparks) [%s]\n", added.Title, added.Frequency, added.SparksReward, cli.ShortID(added.ID))
	return nil
}

// ParseWeekdays accepts "mon,wed", "1,3" or a mix. Empty means no target days.
func ParseWeekdays(s string) ([]int, error) {
	names := map[string]int{
		"sun": 0, "sunday": 0,
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
		"sat": 6, "saturday": 6,
	}
	days := []int{}
	for _, part := range cli.SplitList(s) {
		part = strings.ToLower(part)
		if d, ok := names[part]; ok {
			days = append(days, d)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, n)
	}
	return days, nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	s := ctx.Snapshot()
	if len(s.Habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	now := ctx.Now().In(ctx.Location())
	for _, h := range s.Habits {
		mark := " "
		if streak.IsCompletedToday(h, now) {
			mark = "x"
		}
		ctx.Printf("  [%s] %s  %s (%s, streak %d, +%d)\n", mark, cli.ShortID(h.ID), h.Title, h.Frequency, h.Streak, h.SparksReward)
	}
	return nil
}

type HabitCompleteCmd struct {
	ID string `arg:"" help:"Habit ID (or a unique prefix/suffix)."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	id, err := matchHabit(ctx.Snapshot(), c.ID)
	if err != nil {
		return err
	}

	before := user.Sparks
	s := ctx.Dispatch(engine.CompleteHabit{ID: id})
	h, _ := s.FindHabit(id)
	if s.User.Sparks == before {
		ctx.Printf("%s is already done today (streak %d)\n", h.Title, h.Streak)
		return nil
	}
	ctx.Printf("✓ %s done! Streak %d, +%d sparks (balance %d)\n", h.Title, h.Streak, s.User.Sparks-before, s.User.Sparks)
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID (or a unique prefix/suffix)."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	s := ctx.Snapshot()
	id, err := matchHabit(s, c.ID)
	if err != nil {
		return err
	}
	h, _ := s.FindHabit(id)
	ctx.Dispatch(engine.DeleteHabit{ID: id})
	ctx.Printf("Deleted habit: %s\n", h.Title)
	return nil
}

func matchHabit(s engine.Snapshot, input string) (string, error) {
	ids := make([]string, 0, len(s.Habits))
	for _, h := range s.Habits {
		ids = append(ids, h.ID)
	}
	id, err := cli.MatchID(input, ids)
	if err != nil {
		return "", fmt.Errorf("habit: %w", err)
	}
	return id, nil
}
