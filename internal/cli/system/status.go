package system

import (
	"strings"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/utils"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	s := ctx.Snapshot()
	loc := ctx.Location()
	now := ctx.Now()

	openTasks, dueToday := 0, 0
	for _, t := range s.Tasks {
		if t.Completed {
			continue
		}
		openTasks++
		if t.DueDate != nil && utils.SameDay(*t.DueDate, now, loc) {
			dueToday++
		}
	}
	habitsDone := 0
	for _, h := range s.Habits {
		if h.LastCompleted != nil && utils.SameDay(*h.LastCompleted, now, loc) {
			habitsDone++
		}
	}

	ctx.Printf("%s (level %d)\n", user.Name, user.Level)
	ctx.Printf("  Sparks:   %d ✨\n", user.Sparks)
	ctx.Printf("  Tasks:    %d open, %d due today\n", openTasks, dueToday)
	ctx.Printf("  Habits:   %d/%d done today\n", habitsDone, len(s.Habits))
	ctx.Printf("  Sessions: %d completed\n", len(s.Sessions))
	ctx.Printf("  Theme:    %s\n", s.Theme)
	if len(user.ActiveModules) > 0 {
		ctx.Printf("  Modules:  %s\n", strings.Join(user.ActiveModules, ", "))
	}
	return nil
}

type ThemeCmd struct {
	Toggle ThemeToggleCmd `cmd:"" default:"1" help:"Switch between light and dark."`
}

type ThemeToggleCmd struct{}

func (c *ThemeToggleCmd) Run(ctx *cli.Context) error {
	s := ctx.Dispatch(engine.ToggleTheme{})
	ctx.Printf("Theme set to %s.\n", s.Theme)
	return nil
}
