package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

func TestBackupCommands(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Seed: true}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}

	mgr, err := ctx.BackupManager()
	if err != nil {
		t.Fatalf("BackupManager failed: %v", err)
	}
	backups, err := mgr.List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d (%v)", len(backups), err)
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if err := ctx.Store.DeleteHabit(habits[0].ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	restore := &BackupRestoreCmd{Path: filepath.Base(backups[0].Path)}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("reload after restore failed: %v", err)
	}
	habits, err = ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 5 {
		t.Errorf("expected 5 habits after restore, got %d", len(habits))
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	ctx := &cli.Context{Store: storage.NewJSONStore(filepath.Join(t.TempDir(), "habitual.json"))}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected backups to be rejected for JSON storage")
	}
}
