// Package streak derives current and longest streaks from a habit's completions.
//
// The current streak is evaluated against an explicit now: it is alive only
// while the most recent completed period at or before now is now's period or
// the one immediately before it. Completions dated after now count toward the
// longest streak but never toward the current one.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Periods maps completions of habit to their distinct period keys in ascending order.
func Periods(habit models.Habit, completions []models.Completion) ([]models.PeriodKey, error) {
	seen := make(map[int64]struct{}, len(completions))
	keys := make([]models.PeriodKey, 0, len(completions))
	for _, c := range completions {
		if c.HabitID != habit.ID {
			continue
		}
		key, err := habit.Periodicity.Key(c.CompletedAt)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[key.Index]; ok {
			continue
		}
		seen[key.Index] = struct{}{}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys, nil
}

// Calculate returns the current and longest streak of habit as of now.
func Calculate(habit models.Habit, completions []models.Completion, now time.Time) (models.StreakResult, error) {
	result := models.StreakResult{HabitID: habit.ID}

	if err := habit.Periodicity.Validate(); err != nil {
		return result, err
	}
	keys, err := Periods(habit, completions)
	if err != nil {
		return result, err
	}
	if len(keys) == 0 {
		return result, nil
	}

	longest, err := longestRun(habit.Periodicity, keys)
	if err != nil {
		return result, err
	}
	current, err := currentRun(habit.Periodicity, keys, now)
	if err != nil {
		return result, err
	}

	last := keys[len(keys)-1]
	result.Longest = longest
	result.Current = current
	result.Total = len(keys)
	result.LastPeriod = &last
	return result, nil
}

// Longest returns only the longest streak; it does not depend on the clock.
func Longest(habit models.Habit, completions []models.Completion) (int, error) {
	if err := habit.Periodicity.Validate(); err != nil {
		return 0, err
	}
	keys, err := Periods(habit, completions)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return longestRun(habit.Periodicity, keys)
}

// AtRisk reports whether habit has a live streak but nothing recorded yet in now's period.
func AtRisk(habit models.Habit, completions []models.Completion, now time.Time) (bool, error) {
	result, err := Calculate(habit, completions, now)
	if err != nil || result.Current == 0 {
		return false, err
	}
	nowKey, err := habit.Periodicity.Key(now)
	if err != nil {
		return false, err
	}
	keys, err := Periods(habit, completions)
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if k.Index == nowKey.Index {
			return false, nil
		}
	}
	return true, nil
}

func longestRun(p models.Periodicity, keys []models.PeriodKey) (int, error) {
	best, run := 1, 1
	for i := 1; i < len(keys); i++ {
		ok, err := p.IsConsecutive(keys[i-1], keys[i])
		if err != nil {
			return 0, err
		}
		if ok {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best, nil
}

func currentRun(p models.Periodicity, keys []models.PeriodKey, now time.Time) (int, error) {
	nowKey, err := p.Key(now)
	if err != nil {
		return 0, err
	}

	// Latest completed period that is not in the future
	end := sort.Search(len(keys), func(i int) bool { return keys[i].Index > nowKey.Index }) - 1
	if end < 0 {
		return 0, nil
	}
	if nowKey.Index-keys[end].Index > 1 {
		return 0, nil
	}

	run := 1
	for i := end; i > 0; i-- {
		ok, err := p.IsConsecutive(keys[i-1], keys[i])
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		run++
	}
	return run, nil
}
