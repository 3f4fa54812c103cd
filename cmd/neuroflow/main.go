package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/neuroflow/internal/cli"
	"github.com/julianstephens/neuroflow/internal/cli/backups"
	"github.com/julianstephens/neuroflow/internal/cli/habits"
	"github.com/julianstephens/neuroflow/internal/cli/journal"
	"github.com/julianstephens/neuroflow/internal/cli/pomodoro"
	"github.com/julianstephens/neuroflow/internal/cli/rewards"
	"github.com/julianstephens/neuroflow/internal/cli/system"
	"github.com/julianstephens/neuroflow/internal/cli/tasks"
	"github.com/julianstephens/neuroflow/internal/config"
	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/errors"
	"github.com/julianstephens/neuroflow/internal/logger"
)

type CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. PostgreSQL credentials belong in the OS keyring or NEUROFLOW_DB_CONNECTION, never in this file." type:"path" default:"${config_path}"`
	Driver  string `help:"Storage driver: sqlite, file, postgres, redis or s3. Overrides the config file."`
	Data    string `help:"Data file for the sqlite and file drivers. Overrides the config file." type:"path"`
	Verbose bool   `short:"v" help:"Log debug output to stderr."`

	Init        system.InitCmd         `cmd:"" help:"Initialize neuroflow storage and write a default config."`
	Onboard     system.OnboardCmd      `cmd:"" help:"Create or update your profile."`
	Status      system.StatusCmd       `cmd:"" help:"Show today's summary."`
	Tui         system.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Doctor      system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Debug       system.DebugCmd        `cmd:"" help:"Debug commands for troubleshooting."`
	Theme       system.ThemeCmd        `cmd:"" help:"Manage the color theme."`
	Keyring     system.KeyringCmd      `cmd:"" help:"Manage credentials in the OS keyring."`
	Task        tasks.TaskCmd          `cmd:"" help:"Manage tasks."`
	Habit       habits.HabitCmd        `cmd:"" help:"Manage habits and streaks."`
	Pomodoro    pomodoro.PomodoroCmd   `cmd:"" help:"Focus timer and session stats."`
	Diary       journal.DiaryCmd       `cmd:"" help:"Write and read diary entries."`
	Health      journal.HealthCmd      `cmd:"" help:"Log health metrics."`
	Finance     journal.FinanceCmd     `cmd:"" help:"Track income and expenses."`
	Nutrition   journal.NutritionCmd   `cmd:"" help:"Log meals."`
	Sparks      rewards.SparksCmd      `cmd:"" help:"Adjust your sparks balance."`
	Reward      rewards.RewardCmd      `cmd:"" help:"Browse and claim rewards with sparks."`
	Achievement rewards.AchievementCmd `cmd:"" help:"Unlock and list achievements."`
	Backup      backups.BackupCmd      `cmd:"" help:"Manage data backups."`
}

// offline commands run without opening storage.
var offline = []string{"keyring"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errors.Fatal(run(ctx, os.Args[1:], os.Stdout, os.Stdin))
}

func run(ctx context.Context, args []string, out io.Writer, in io.Reader) error {
	var cliArgs CLI
	parser, err := kong.New(&cliArgs,
		kong.Name(constants.AppName),
		kong.Description("Habits, tasks and focus sessions that earn you sparks"),
		kong.UsageOnError(),
		kong.Writers(out, os.Stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configDir := cli.ConfigDirFor(cliArgs.Config)
	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		return err
	}
	if cliArgs.Driver != "" {
		cfg.Storage.Driver = cliArgs.Driver
	}
	if cliArgs.Data != "" {
		cfg.Storage.Path = cliArgs.Data
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.Log.Level
	if cliArgs.Verbose {
		level = "debug"
	}
	isTUI := kctx.Command() == "tui"
	if err := logger.Init(logger.Config{
		Debug:     cliArgs.Verbose && !isTUI,
		ConfigDir: configDir,
		Level:     level,
		Console:   cfg.Log.Console && !isTUI,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("starting", "command", kctx.Command(), "driver", cfg.Storage.Driver, "version", constants.Version)

	appCtx, err := openContext(ctx, kctx.Command(), cfg, configDir)
	if err != nil {
		return err
	}
	appCtx.ConfigPath = cliArgs.Config
	appCtx.Out = out
	appCtx.In = in

	err = kctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("failed to close storage", "error", cerr)
	}
	return err
}

func openContext(ctx context.Context, command string, cfg config.Config, configDir string) (*cli.Context, error) {
	for _, prefix := range offline {
		if strings.HasPrefix(command, prefix) {
			return &cli.Context{
				Ctx:       ctx,
				Config:    cfg,
				ConfigDir: configDir,
				Out:       os.Stdout,
				In:        os.Stdin,
				Now:       time.Now,
			}, nil
		}
	}
	return cli.Open(ctx, cfg, configDir)
}
