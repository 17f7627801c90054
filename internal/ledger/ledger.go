// Package ledger keeps the completions of a single habit and guarantees that
// each period holds at most one of them.
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

// Ledger is the ordered completion set of one habit.
// Record is its only write path.
type Ledger struct {
	habit       models.Habit
	completions []models.Completion
	periods     map[models.PeriodKey]struct{}
}

// New builds a ledger from completions loaded from storage. Completions that
// belong to another habit are ignored.
func New(habit models.Habit, completions []models.Completion) (*Ledger, error) {
	if err := habit.Periodicity.Validate(); err != nil {
		return nil, err
	}

	l := &Ledger{
		habit:       habit,
		completions: make([]models.Completion, 0, len(completions)),
		periods:     make(map[models.PeriodKey]struct{}, len(completions)),
	}
	for _, c := range completions {
		if c.HabitID != habit.ID {
			continue
		}
		key, err := habit.Periodicity.Key(c.CompletedAt)
		if err != nil {
			return nil, err
		}
		l.completions = append(l.completions, c)
		l.periods[key] = struct{}{}
	}
	sort.SliceStable(l.completions, func(i, j int) bool {
		return l.completions[i].CompletedAt.Before(l.completions[j].CompletedAt)
	})

	return l, nil
}

// Habit returns the habit this ledger belongs to
func (l *Ledger) Habit() models.Habit {
	return l.habit
}

// Record adds a completion at ts. A completion already present in the same
// period yields a *DuplicateCompletionError and leaves the ledger unchanged.
func (l *Ledger) Record(ts time.Time) (models.Completion, error) {
	key, err := l.habit.Periodicity.Key(ts)
	if err != nil {
		return models.Completion{}, err
	}
	if _, taken := l.periods[key]; taken {
		return models.Completion{}, &apperrors.DuplicateCompletionError{
			HabitID: l.habit.ID,
			Period:  key.String(),
		}
	}

	c := models.Completion{
		ID:          uuid.New().String(),
		HabitID:     l.habit.ID,
		CompletedAt: ts,
	}

	i := sort.Search(len(l.completions), func(i int) bool {
		return l.completions[i].CompletedAt.After(ts)
	})
	l.completions = append(l.completions, models.Completion{})
	copy(l.completions[i+1:], l.completions[i:])
	l.completions[i] = c
	l.periods[key] = struct{}{}

	return c, nil
}

// Completions returns a copy of the completions in ascending timestamp order.
func (l *Ledger) Completions() []models.Completion {
	out := make([]models.Completion, len(l.completions))
	copy(out, l.completions)
	return out
}

// Has reports whether the period identified by key already has a completion
func (l *Ledger) Has(key models.PeriodKey) bool {
	_, ok := l.periods[key]
	return ok
}

// Covers reports whether the period containing ts already has a completion.
func (l *Ledger) Covers(ts time.Time) (bool, error) {
	key, err := l.habit.Periodicity.Key(ts)
	if err != nil {
		return false, err
	}
	return l.Has(key), nil
}

// Periods returns the distinct completed periods in ascending order
func (l *Ledger) Periods() []models.PeriodKey {
	keys := make([]models.PeriodKey, 0, len(l.periods))
	for k := range l.periods {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

func (l *Ledger) Len() int {
	return len(l.completions)
}
