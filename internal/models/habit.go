package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Periodicity Periodicity `json:"periodicity" yaml:"periodicity"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// Completion records that a habit was done at a point in time
type Completion struct {
	ID          string    `json:"id" yaml:"id"`
	HabitID     string    `json:"habit_id" yaml:"habit_id"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

// StreakResult is computed on demand and never persisted
type StreakResult struct {
	HabitID string
	Current int
	Longest int
	// Total is the number of distinct completed periods
	Total int
	// LastPeriod is the most recent completed period, nil when there are no completions
	LastPeriod *PeriodKey
}
