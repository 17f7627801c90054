package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/cli"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Backup created: " + path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("Backups in %s:", mgr.Dir())))
	for _, b := range backups {
		fmt.Printf("  %s  %s  %d KB\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), b.Size/1024)
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file, absolute or relative to the backup directory."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}

	path := c.Path
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(mgr.Dir(), path)
	}

	// Release the database file before it is replaced
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}

	previous, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if previous != "" {
		fmt.Printf("Backed up current database to: %s\n", filepath.Base(previous))
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Restored database from " + filepath.Base(path)))
	return nil
}
