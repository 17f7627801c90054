package storage

import "github.com/julianstephens/habitual/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSetting(key string) (string, error)
	SaveSetting(key, value string) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	// DeleteHabit removes the habit and every completion recorded for it.
	DeleteHabit(id string) error

	// Completions
	// AddCompletion stores c labelled with periodKey. Callers go through a
	// ledger.Ledger, which owns the one-per-period check.
	AddCompletion(c models.Completion, periodKey string) error
	GetCompletions(habitID string) ([]models.Completion, error)
	GetAllCompletions() ([]models.Completion, error)

	// Utils
	GetConfigPath() string
}
