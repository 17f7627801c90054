package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	// ConfigFile is the config.toml path, used by init --write-config
	ConfigFile string
	// Clock defaults to time.Now
	Clock func() time.Time
}

// Location resolves the timezone used to key periods: the configured
// timezone first, then the stored setting, then the system zone.
func (c *Context) Location() (*time.Location, error) {
	if c.Config != nil && c.Config.Timezone != "" {
		return utils.LoadLocation(c.Config.Timezone)
	}

	tz, err := c.Store.GetSetting(constants.SettingTimezone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return time.Local, nil
		}
		return nil, fmt.Errorf("failed to read timezone setting: %w", err)
	}
	return utils.LoadLocation(tz)
}

// Tracker builds a tracker over the loaded store
func (c *Context) Tracker() (*tracker.Tracker, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return tracker.New(c.Store, c.Clock, loc), nil
}

// BackupManager returns the backup manager of a SQLite store. Other
// backends have no file to snapshot.
func (c *Context) BackupManager() (*backup.Manager, error) {
	store, ok := c.Store.(*sqlite.Store)
	if !ok {
		return nil, errors.New("backups are only supported for SQLite storage")
	}
	return backup.NewManager(store.GetConfigPath()), nil
}

// PerformAutomaticBackup snapshots a SQLite store and only logs failures
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FormatStreak renders a streak result as "current 3 · longest 5 · 12 total"
func FormatStreak(r models.StreakResult) string {
	s := fmt.Sprintf("current %d · longest %d · %d total", r.Current, r.Longest, r.Total)
	if r.LastPeriod != nil {
		s += " · last " + r.LastPeriod.String()
	}
	return s
}

// FormatHabit renders "name [periodicity]"
func FormatHabit(h models.Habit) string {
	return fmt.Sprintf("%s [%s]", h.Name, h.Periodicity)
}
