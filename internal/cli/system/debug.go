package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/constants"
)

type DebugCmd struct {
	Config   DebugConfigCmd   `cmd:"" help:"Show the resolved configuration."`
	Snapshot DebugSnapshotCmd `cmd:"" help:"Dump the current user's data as JSON."`
	Table    DebugTableCmd    `cmd:"" help:"Dump one raw table as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugConfigCmd struct{}

func (cmd *DebugConfigCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]any{
		"version":  constants.Version,
		"config":   ctx.ConfigPath,
		"driver":   ctx.Config.Storage.Driver,
		"path":     ctx.Config.Storage.Path,
		"prefix":   ctx.Config.Storage.Prefix,
		"timezone": ctx.Config.Timezone,
		"backups":  ctx.BackupManager().GetBackupDir(),
	})
}

type DebugSnapshotCmd struct{}

func (cmd *DebugSnapshotCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	data, err := ctx.Repo.LoadUserData(ctx.Ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load user data: %w", err)
	}
	return printJSON(ctx, data)
}

type DebugTableCmd struct {
	Name string `arg:"" help:"Table name, e.g. tasks or pomodoro_sessions."`
}

func (cmd *DebugTableCmd) Run(ctx *cli.Context) error {
	known := false
	for _, t := range ctx.Repo.Store().Tables() {
		if t == cmd.Name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown table %q", cmd.Name)
	}
	records, err := ctx.Repo.Store().ReadTable(ctx.Ctx, cmd.Name)
	if err != nil {
		return err
	}
	return printJSON(ctx, records)
}
