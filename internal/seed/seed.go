// Package seed loads a four week demo data set into an empty store.
package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/ledger"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// ErrNotEmpty is returned by Run when the store already holds habits
var ErrNotEmpty = errors.New("store already contains habits")

type fixture struct {
	name        string
	description string
	periodicity models.Periodicity
	// offset is added to the day's base time so each habit lands at a distinct hour
	offset time.Duration
	done   func(day int) bool
}

var fixtures = []fixture{
	{
		name:        "Morning stretch",
		description: "5-10 min mobility routine.",
		periodicity: models.Daily,
		done:        func(day int) bool { return day%6 != 5 },
	},
	{
		name:        "No sugary drink",
		description: "Avoid soda/energy drinks.",
		periodicity: models.Daily,
		offset:      30 * time.Minute,
		done:        func(day int) bool { return day%4 != 3 },
	},
	{
		name:        "Study session",
		description: "45 min focused study.",
		periodicity: models.Daily,
		offset:      time.Hour,
		done:        func(day int) bool { return day%3 != 2 },
	},
	{
		name:        "Weekly cleaning",
		description: "Clean room + laundry.",
		periodicity: models.Weekly,
		offset:      2 * time.Hour,
		done:        func(day int) bool { return day == 2 || day == 9 || day == 16 || day == 23 },
	},
	{
		name:        "Budget review",
		description: "Check spending & plan week.",
		periodicity: models.Weekly,
		offset:      3 * time.Hour,
		done:        func(day int) bool { return day == 4 || day == 11 || day == 18 },
	},
}

// Result summarizes what Run wrote
type Result struct {
	Habits      int
	Completions int
}

// Run seeds five habits created SeedDays-1 days before now at 18:00, one
// millisecond apart in fixture order, and their completions for each of the
// following SeedDays days. It refuses to touch a store that already has habits.
func Run(store storage.Provider, now time.Time) (Result, error) {
	existing, err := store.GetAllHabits()
	if err != nil {
		return Result{}, fmt.Errorf("failed to check existing habits: %w", err)
	}
	if len(existing) > 0 {
		return Result{}, ErrNotEmpty
	}

	y, m, d := now.AddDate(0, 0, -(constants.SeedDays - 1)).Date()
	start := time.Date(y, m, d, 18, 0, 0, 0, now.Location())

	var res Result
	for i, f := range fixtures {
		habit := models.Habit{
			ID:          uuid.New().String(),
			Name:        f.name,
			Description: f.description,
			Periodicity: f.periodicity,
			CreatedAt:   start.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.AddHabit(habit); err != nil {
			return res, fmt.Errorf("failed to seed habit %q: %w", f.name, err)
		}
		res.Habits++

		l, err := ledger.New(habit, nil)
		if err != nil {
			return res, err
		}
		for day := 0; day < constants.SeedDays; day++ {
			if !f.done(day) {
				continue
			}
			at := start.AddDate(0, 0, day).Add(f.offset)
			c, err := l.Record(at)
			if err != nil {
				return res, fmt.Errorf("failed to seed completion for %q: %w", f.name, err)
			}
			key, err := habit.Periodicity.Key(at)
			if err != nil {
				return res, err
			}
			if err := store.AddCompletion(c, key.String()); err != nil {
				return res, fmt.Errorf("failed to store completion for %q: %w", f.name, err)
			}
			res.Completions++
		}
	}

	logger.Info("Seeded fixture data", "habits", res.Habits, "completions", res.Completions)
	return res, nil
}
