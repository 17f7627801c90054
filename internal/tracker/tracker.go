// Package tracker is the service the CLI and TUI talk to. It loads habits and
// completions from a storage.Provider, routes writes through a ledger and
// answers analytics queries against an injected clock.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/analytics"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/ledger"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streak"
)

type Tracker struct {
	store storage.Provider
	clock func() time.Time
	loc   *time.Location
}

// New returns a Tracker. A nil clock means time.Now and a nil loc means time.Local.
func New(store storage.Provider, clock func() time.Time, loc *time.Location) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{store: store, clock: clock, loc: loc}
}

// Now returns the tracker clock in its location
func (t *Tracker) Now() time.Time {
	return t.clock().In(t.loc)
}

// Location returns the timezone periods are keyed in
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// CreateHabit validates and stores a new habit created now.
func (t *Tracker) CreateHabit(name, description string, periodicity models.Periodicity) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, apperrors.NewConfigurationError("name", name)
	}
	if err := periodicity.Validate(); err != nil {
		return models.Habit{}, err
	}

	habit := models.Habit{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Periodicity: periodicity,
		CreatedAt:   t.Now(),
	}
	if err := t.store.AddHabit(habit); err != nil {
		return models.Habit{}, err
	}

	logger.Debug("Habit created", "id", habit.ID, "name", habit.Name, "periodicity", habit.Periodicity)
	return habit, nil
}

// Habits returns every tracked habit ordered by creation time.
func (t *Tracker) Habits() ([]models.Habit, error) {
	habits, err := t.store.GetAllHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	for i := range habits {
		habits[i].CreatedAt = habits[i].CreatedAt.In(t.loc)
	}
	return habits, nil
}

// Habit resolves ref as an id first and then as a name.
func (t *Tracker) Habit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	habit, err := t.store.GetHabit(ref)
	if errors.Is(err, apperrors.ErrNotFound) {
		habit, err = t.store.GetHabitByName(ref)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Habit{}, apperrors.NewNotFoundError("habit", ref)
		}
		return models.Habit{}, err
	}
	habit.CreatedAt = habit.CreatedAt.In(t.loc)
	return habit, nil
}

// RecordCompletion checks off the habit named by ref at the given instant.
// A second completion in an already completed period yields a *DuplicateCompletionError.
func (t *Tracker) RecordCompletion(ref string, at time.Time) (models.Completion, error) {
	habit, err := t.Habit(ref)
	if err != nil {
		return models.Completion{}, err
	}
	completions, err := t.completions(habit.ID)
	if err != nil {
		return models.Completion{}, err
	}

	l, err := ledger.New(habit, completions)
	if err != nil {
		return models.Completion{}, err
	}
	at = at.In(t.loc)
	c, err := l.Record(at)
	if err != nil {
		return models.Completion{}, err
	}

	key, err := habit.Periodicity.Key(at)
	if err != nil {
		return models.Completion{}, err
	}
	if err := t.store.AddCompletion(c, key.String()); err != nil {
		return models.Completion{}, err
	}

	logger.Debug("Completion recorded", "habit", habit.Name, "period", key.String())
	return c, nil
}

// CheckOff records a completion at the current time.
func (t *Tracker) CheckOff(ref string) (models.Completion, error) {
	return t.RecordCompletion(ref, t.Now())
}

// DeleteHabit removes the habit and, through storage, all of its completions.
func (t *Tracker) DeleteHabit(ref string) (models.Habit, error) {
	habit, err := t.Habit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := t.store.DeleteHabit(habit.ID); err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Habit deleted", "id", habit.ID, "name", habit.Name)
	return habit, nil
}

// History returns one habit with its completions in ascending order.
func (t *Tracker) History(ref string) (analytics.HabitHistory, error) {
	habit, err := t.Habit(ref)
	if err != nil {
		return analytics.HabitHistory{}, err
	}
	completions, err := t.completions(habit.ID)
	if err != nil {
		return analytics.HabitHistory{}, err
	}
	return analytics.HabitHistory{Habit: habit, Completions: completions}, nil
}

// Histories loads every habit with its completions.
func (t *Tracker) Histories() ([]analytics.HabitHistory, error) {
	habits, err := t.Habits()
	if err != nil {
		return nil, err
	}
	all, err := t.store.GetAllCompletions()
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	byHabit := make(map[string][]models.Completion, len(habits))
	for _, c := range all {
		c.CompletedAt = c.CompletedAt.In(t.loc)
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}

	histories := make([]analytics.HabitHistory, 0, len(habits))
	for _, h := range habits {
		histories = append(histories, analytics.HabitHistory{Habit: h, Completions: byHabit[h.ID]})
	}
	return histories, nil
}

// LongestStreak returns the longest run for the habit named by ref.
func (t *Tracker) LongestStreak(ref string) (int, error) {
	h, err := t.History(ref)
	if err != nil {
		return 0, err
	}
	return analytics.LongestStreak(h)
}

// Streak returns the full streak result for the habit named by ref.
func (t *Tracker) Streak(ref string) (models.StreakResult, error) {
	h, err := t.History(ref)
	if err != nil {
		return models.StreakResult{}, err
	}
	return streak.Calculate(h.Habit, h.Completions, t.Now())
}

// LongestOverall returns the habit holding the longest streak of all.
func (t *Tracker) LongestOverall() (analytics.Leader, error) {
	histories, err := t.Histories()
	if err != nil {
		return analytics.Leader{}, err
	}
	return analytics.LongestOverall(histories)
}

// DueToday returns habits with no completion yet in the current period.
func (t *Tracker) DueToday() ([]models.Habit, error) {
	histories, err := t.Histories()
	if err != nil {
		return nil, err
	}
	return analytics.DueToday(histories, t.Now())
}

// FilterByPeriodicity returns tracked habits with periodicity p.
func (t *Tracker) FilterByPeriodicity(p models.Periodicity) ([]models.Habit, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	habits, err := t.Habits()
	if err != nil {
		return nil, err
	}
	return analytics.FilterByPeriodicity(habits, p), nil
}

// StreaksPerHabit returns the streak result of every habit as of now.
func (t *Tracker) StreaksPerHabit() ([]analytics.HabitStreak, error) {
	histories, err := t.Histories()
	if err != nil {
		return nil, err
	}
	return analytics.StreaksPerHabit(histories, t.Now())
}

// AtRisk returns habits whose live streak ends unless they are completed this period.
func (t *Tracker) AtRisk() ([]analytics.HabitStreak, error) {
	histories, err := t.Histories()
	if err != nil {
		return nil, err
	}
	return analytics.AtRisk(histories, t.Now())
}

func (t *Tracker) completions(habitID string) ([]models.Completion, error) {
	completions, err := t.store.GetCompletions(habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	for i := range completions {
		completions[i].CompletedAt = completions[i].CompletedAt.In(t.loc)
	}
	return completions, nil
}
