package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/config"
)

type InitCmd struct {
	Force bool `help:"Erase all stored data (a backup is taken first)."`
	Yes   bool `short:"y" help:"Skip the confirmation prompt for --force."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if ctx.ConfigPath != "" {
		created, err := writeConfigIfMissing(ctx.ConfigPath, ctx.Config)
		if err != nil {
			return err
		}
		if created {
			ctx.Printf("Wrote config to: %s\n", ctx.ConfigPath)
		}
	}

	if c.Force {
		if !c.Yes {
			ok, err := ctx.Confirm("This erases every table. Continue?")
			if err != nil {
				return err
			}
			if !ok {
				ctx.Println("Init cancelled.")
				return nil
			}
		}
		ctx.PerformAutomaticBackup()
		if err := ctx.Repo.Store().Reset(ctx.Ctx); err != nil {
			return fmt.Errorf("failed to reset storage: %w", err)
		}
		if _, err := ctx.Dispatcher.Hydrate(ctx.Ctx, ctx.Repo, ""); err != nil {
			return err
		}
		ctx.Println("Deleted all stored data.")
	}

	if err := ctx.Repo.Init(ctx.Ctx); err != nil {
		return err
	}
	ctx.Printf("Initialized neuroflow storage (%s).\n", ctx.Config.Storage.Driver)
	if !ctx.Snapshot().HasUser() {
		ctx.Println("Run 'neuroflow onboard' to create your profile.")
	}
	return nil
}

// writeConfigIfMissing saves cfg to path unless a file is already there.
func writeConfigIfMissing(path string, cfg config.Config) (bool, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(expanded); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to access config: %w", err)
	}
	if err := cfg.Save(expanded); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
