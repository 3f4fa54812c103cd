package system

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/models"
)

type OnboardCmd struct {
	Name       string `help:"Your name. Without it an interactive form is shown."`
	Focus      string `help:"Comma-separated focus areas (tasks, habits, pomodoro, diary, health, finance, nutrition)."`
	Goals      string `help:"Comma-separated goals."`
	Challenges string `help:"Comma-separated current challenges."`
	Time       string `help:"Preferred time of day (morning, afternoon, evening)."`
	Experience string `help:"Experience with productivity tools (beginner, intermediate, advanced)."`
}

func (c *OnboardCmd) Validate() error {
	if c.Time != "" && !slices.Contains([]string{"morning", "afternoon", "evening"}, c.Time) {
		return fmt.Errorf("invalid preferred time %q", c.Time)
	}
	if c.Experience != "" && !slices.Contains([]string{"beginner", "intermediate", "advanced"}, c.Experience) {
		return fmt.Errorf("invalid experience %q", c.Experience)
	}
	return nil
}

// focusOptions are the modules a user can activate.
var focusOptions = []string{
	constants.ViewTasks,
	constants.ViewHabits,
	constants.ViewPomodoro,
	constants.ViewDiary,
	constants.ViewHealth,
	constants.ViewFinance,
	constants.ViewNutrition,
}

func (c *OnboardCmd) Run(ctx *cli.Context) error {
	data := models.OnboardingData{
		Name:              strings.TrimSpace(c.Name),
		FocusAreas:        cli.SplitList(c.Focus),
		Goals:             cli.SplitList(c.Goals),
		CurrentChallenges: cli.SplitList(c.Challenges),
		PreferredTime:     c.Time,
		Experience:        c.Experience,
	}
	if data.Name == "" {
		if err := runOnboardingForm(&data); err != nil {
			return err
		}
	}
	if data.Name == "" {
		return errors.New("name is required")
	}

	existing := ctx.Snapshot().HasUser()
	s := ctx.Dispatch(engine.CompleteOnboarding{Data: data})
	if existing {
		ctx.Printf("Updated profile for %s.\n", s.User.Name)
		return nil
	}
	ctx.Printf("Welcome, %s! You start with %d sparks ✨\n", s.User.Name, s.User.Sparks)
	return nil
}

func runOnboardingForm(data *models.OnboardingData) error {
	goals := ""
	opts := make([]huh.Option[string], 0, len(focusOptions))
	for _, f := range focusOptions {
		opts = append(opts, huh.NewOption(strings.ToUpper(f[:1])+f[1:], f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should we call you?").
				Value(&data.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Which areas do you want to focus on?").
				Options(opts...).
				Value(&data.FocusAreas),
			huh.NewInput().
				Title("Goals (comma-separated)").
				Value(&goals),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When do you work best?").
				Options(
					huh.NewOption("Morning", "morning"),
					huh.NewOption("Afternoon", "afternoon"),
					huh.NewOption("Evening", "evening"),
				).
				Value(&data.PreferredTime),
			huh.NewSelect[string]().
				Title("Experience with productivity tools").
				Options(
					huh.NewOption("Beginner", "beginner"),
					huh.NewOption("Intermediate", "intermediate"),
					huh.NewOption("Advanced", "advanced"),
				).
				Value(&data.Experience),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	data.Name = strings.TrimSpace(data.Name)
	data.Goals = cli.SplitList(goals)
	return nil
}
