// Package analytics answers cross-habit questions by composing per-habit
// streak results. Every function is a projection: inputs are never mutated
// and results are built fresh on each call.
package analytics

import (
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
)

// HabitHistory pairs a habit with the completions loaded for it
type HabitHistory struct {
	Habit       models.Habit
	Completions []models.Completion
}

// Leader is the result of LongestOverall. Found is false for an empty collection.
type Leader struct {
	Habit  models.Habit
	Streak int
	Found  bool
}

// HabitStreak is one row of StreaksPerHabit
type HabitStreak struct {
	Habit  models.Habit
	Result models.StreakResult
}

// AllHabits returns the tracked habits in input order.
func AllHabits(histories []HabitHistory) []models.Habit {
	habits := make([]models.Habit, 0, len(histories))
	for _, h := range histories {
		habits = append(habits, h.Habit)
	}
	return habits
}

// LongestStreak returns the longest run of consecutive completed periods for one habit.
func LongestStreak(history HabitHistory) (int, error) {
	return streak.Longest(history.Habit, history.Completions)
}

// LongestOverall returns the habit with the highest longest streak. Ties go to
// the habit that appears first in histories.
func LongestOverall(histories []HabitHistory) (Leader, error) {
	var leader Leader
	for _, h := range histories {
		n, err := LongestStreak(h)
		if err != nil {
			return Leader{}, err
		}
		if !leader.Found || n > leader.Streak {
			leader = Leader{Habit: h.Habit, Streak: n, Found: true}
		}
	}
	return leader, nil
}

// DueToday returns habits whose period containing now has no completion yet.
// Habits created after now's period are not due.
func DueToday(histories []HabitHistory, now time.Time) ([]models.Habit, error) {
	due := make([]models.Habit, 0, len(histories))
	for _, h := range histories {
		pending, err := isDue(h, now)
		if err != nil {
			return nil, err
		}
		if pending {
			due = append(due, h.Habit)
		}
	}
	return due, nil
}

// FilterByPeriodicity keeps the habits with periodicity p, preserving order.
func FilterByPeriodicity(habits []models.Habit, p models.Periodicity) []models.Habit {
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Periodicity == p {
			out = append(out, h)
		}
	}
	return out
}

// StreaksPerHabit computes the streak result of every habit as of now.
func StreaksPerHabit(histories []HabitHistory, now time.Time) ([]HabitStreak, error) {
	rows := make([]HabitStreak, 0, len(histories))
	for _, h := range histories {
		res, err := streak.Calculate(h.Habit, h.Completions, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, HabitStreak{Habit: h.Habit, Result: res})
	}
	return rows, nil
}

// AtRisk returns habits with a live current streak that are not yet completed in now's period.
func AtRisk(histories []HabitHistory, now time.Time) ([]HabitStreak, error) {
	rows := make([]HabitStreak, 0)
	for _, h := range histories {
		risky, err := streak.AtRisk(h.Habit, h.Completions, now)
		if err != nil {
			return nil, err
		}
		if !risky {
			continue
		}
		res, err := streak.Calculate(h.Habit, h.Completions, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, HabitStreak{Habit: h.Habit, Result: res})
	}
	return rows, nil
}

func isDue(h HabitHistory, now time.Time) (bool, error) {
	p := h.Habit.Periodicity
	nowKey, err := p.Key(now)
	if err != nil {
		return false, err
	}
	if !h.Habit.CreatedAt.IsZero() {
		createdKey, err := p.Key(h.Habit.CreatedAt.In(now.Location()))
		if err != nil {
			return false, err
		}
		if nowKey.Before(createdKey) {
			return false, nil
		}
	}

	keys, err := streak.Periods(h.Habit, h.Completions)
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
