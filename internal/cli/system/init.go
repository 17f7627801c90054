package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/seed"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

type InitCmd struct {
	Force       bool `help:"Force reset by deleting existing storage before initialization."`
	Seed        bool `help:"Load the demo habits after initialization."`
	WriteConfig bool `help:"Save the resolved configuration to config.toml." name:"write-config"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*postgres.Store); ok {
			return errors.New("--force is not supported for PostgreSQL, drop the habitual schema instead")
		}

		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			ctx.PerformAutomaticBackup()
			// Close first to release the file handle
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			logger.Info("Deleted existing storage", "path", path)
			fmt.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.WriteConfig && ctx.Config != nil && ctx.ConfigFile != "" {
		if err := ctx.Config.Save(ctx.ConfigFile); err != nil {
			return err
		}
		fmt.Printf("Wrote configuration to: %s\n", ctx.ConfigFile)
	}

	if c.Seed {
		return runSeed(ctx)
	}
	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *cli.Context) error {
	return runSeed(ctx)
}

func runSeed(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	res, err := seed.Run(ctx.Store, tr.Now())
	if err != nil {
		if errors.Is(err, seed.ErrNotEmpty) {
			return fmt.Errorf("%w, seed only runs against empty storage", err)
		}
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Seeded %d habits with %d completions", res.Habits, res.Completions)))
	return nil
}
