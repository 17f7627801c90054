package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/insights"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite path, *.json path, PostgreSQL connection string or 'keyring'. PostgreSQL credentials must NOT be embedded in the connection string." env:"HABITUAL_CONFIG"`
	Timezone string `help:"IANA timezone used to key periods." env:"HABITUAL_TZ"`
	Debug    bool   `help:"Enable debug logging to stderr." env:"HABITUAL_DEBUG"`

	Init      system.InitCmd        `cmd:"" help:"Initialize habitual storage."`
	Seed      system.SeedCmd        `cmd:"" help:"Load four weeks of demo habits into empty storage."`
	Tui       system.TuiCmd         `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit     habits.HabitCmd       `cmd:"" help:"Manage habits and completions."`
	Analytics insights.AnalyticsCmd `cmd:"" help:"Streak analytics across habits."`
	Settings  settings.SettingsCmd  `cmd:"" help:"Manage stored settings."`
	Keyring   system.KeyringCmd     `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Single-user habit tracker with streak analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configFile, err := storage.ExpandPath(constants.DefaultConfigFile)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg.Merge(CLI.Config, CLI.Timezone, CLI.Debug)
	if err := cfg.Validate(); err != nil {
		apperrors.Fatal(err)
	}

	configDir, err := storage.ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigFile: configFile,
	}

	// Keyring commands manage credentials and never touch storage
	command := ctx.Command()
	if !strings.HasPrefix(command, "keyring") {
		store, err := storage.Open(cfg.Database)
		if err != nil {
			apperrors.Fatal(err)
		}
		appCtx.Store = store

		// Init handles its own setup
		if !strings.HasPrefix(command, "init") {
			if err := store.Load(); err != nil {
				apperrors.Fatal(err)
			}
		}
	}

	logger.Debug("Running command", "command", command, "database", cfg.Database)
	err = ctx.Run(appCtx)
	if appCtx.Store != nil {
		if cerr := appCtx.Store.Close(); cerr != nil {
			logger.Warn("Failed to close storage", "error", cerr)
		}
	}
	apperrors.Fatal(err)
}
