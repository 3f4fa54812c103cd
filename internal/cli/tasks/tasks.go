package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/utils"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add a new task."`
	List   TaskListCmd   `cmd:"" help:"List tasks."`
	Toggle TaskToggleCmd `cmd:"" help:"Mark a task done (or undone)."`
	Delete TaskDeleteCmd `cmd:"" help:"Delete a task."`
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Longer description."`
	Priority    string `short:"p" help:"Priority (low|medium|high)." enum:"low,medium,high" default:"medium"`
	Due         string `help:"Due date (YYYY-MM-DD)."`
	Category    string `short:"c" help:"Category." default:"General"`
	Estimate    int    `short:"e" help:"Estimated time in minutes."`
	Tags        string `short:"t" help:"Comma-separated tags."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Estimate < 0 {
		return errors.New("estimate cannot be negative")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}

	task := models.Task{
		Title:       c.Title,
		Description: c.Description,
		Priority:    models.Priority(c.Priority),
		Category:    c.Category,
		Tags:        cli.SplitList(c.Tags),
	}
	if c.Due != "" {
		due, err := ctx.ParseDate(c.Due)
		if err != nil {
			return err
		}
		task.DueDate = &due
	}
	if c.Estimate > 0 {
		est := c.Estimate
		task.EstimatedTime = &est
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := models.ValidateTask(task); err != nil {
		return err
	}

	s := ctx.Dispatch(engine.AddTask{Task: task})
	added := s.Tasks[0]
	ctx.Printf("Added task: %s (%s priority, +%d sparks) [%s]\n", added.Title, added.Priority, added.SparksReward, cli.ShortID(added.ID))
	return nil
}

type TaskListCmd struct {
	Pending bool `help:"Show only incomplete tasks."`
	ShowIDs bool `help:"Show full task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}

	s := ctx.Snapshot()
	if len(s.Tasks) == 0 {
		ctx.Println("No tasks found")
		return nil
	}

	loc := ctx.Location()
	ctx.Println("Tasks:")
	for _, t := range s.Tasks {
		if c.Pending && t.Completed {
			continue
		}
		mark := " "
		if t.Completed {
			mark = "x"
		}
		id := cli.ShortID(t.ID)
		if c.ShowIDs {
			id = t.ID
		}
		ctx.Printf("  [%s] %s  %s (%s, %s, +%d)\n", mark, id, t.Title, t.Priority, t.Category, t.SparksReward)
		if t.DueDate != nil {
			ctx.Printf("      Due: %s%s\n", utils.FormatDate(*t.DueDate, loc), overdue(t, ctx.Now(), loc))
		}
	}
	return nil
}

func overdue(t models.Task, now time.Time, loc *time.Location) string {
	if t.Completed || t.DueDate == nil {
		return ""
	}
	if utils.DaysBetween(*t.DueDate, now, loc) > 0 {
		return " (overdue)"
	}
	return ""
}

type TaskToggleCmd struct {
	ID string `arg:"" help:"Task ID (or a unique prefix/suffix)."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	id, err := matchTask(ctx.Snapshot(), c.ID)
	if err != nil {
		return err
	}

	before := user.Sparks
	s := ctx.Dispatch(engine.ToggleTask{ID: id})
	t, _ := s.FindTask(id)
	if t.Completed {
		ctx.Printf("✓ Completed: %s (+%d sparks, balance %d)\n", t.Title, s.User.Sparks-before, s.User.Sparks)
	} else {
		ctx.Printf("Reopened: %s\n", t.Title)
	}
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID (or a unique prefix/suffix)."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	s := ctx.Snapshot()
	id, err := matchTask(s, c.ID)
	if err != nil {
		return err
	}
	t, _ := s.FindTask(id)
	ctx.Dispatch(engine.DeleteTask{ID: id})
	ctx.Printf("Deleted task: %s\n", t.Title)
	return nil
}

func matchTask(s engine.Snapshot, input string) (string, error) {
	ids := make([]string, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		ids = append(ids, t.ID)
	}
	id, err := cli.MatchID(input, ids)
	if err != nil {
		return "", fmt.Errorf("task: %w", err)
	}
	return id, nil
}
