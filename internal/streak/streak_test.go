package streak

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

var (
	dailyHabit = models.Habit{
		ID:          "daily-1",
		Name:        "Stretch",
		Periodicity: models.Daily,
		CreatedAt:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	weeklyHabit = models.Habit{
		ID:          "weekly-1",
		Name:        "Clean room",
		Periodicity: models.Weekly,
		CreatedAt:   time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
	}
)

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 18, 0, 0, 0, time.UTC)
}

func completionsOn(habit models.Habit, times ...time.Time) []models.Completion {
	out := make([]models.Completion, 0, len(times))
	for _, ts := range times {
		out = append(out, models.Completion{HabitID: habit.ID, CompletedAt: ts})
	}
	return out
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		habit       models.Habit
		completions []models.Completion
		now         time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "no completions",
			habit:       dailyHabit,
			now:         day(10),
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "single fresh completion",
			habit:       dailyHabit,
			completions: completionsOn(dailyHabit, day(10)),
			now:         day(10),
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "single stale completion",
			habit:       dailyHabit,
			completions: completionsOn(dailyHabit, day(5)),
			now:         day(10),
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "run of three then gap then one",
			habit:       dailyHabit,
			completions: completionsOn(dailyHabit, day(1), day(2), day(3), day(6)),
			now:         day(6),
			wantCurrent: 1,
			wantLongest: 3,
		},
		{
			name:        "streak still alive when last completion was yesterday",
			habit:       dailyHabit,
			completions: completionsOn(dailyHabit, day(7), day(8), day(9)),
			now:         day(10),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "last completion three days ago breaks current streak",
			habit:       dailyHabit,
			completions: completionsOn(dailyHabit, day(5), day(6), day(7)),
			now:         day(10),
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name:        "completions after now are excluded from current",
			habit:       dailyHabit,
			completions: completionsOn(dailyHabit, day(4), day(5), day(12), day(13), day(14)),
			now:         day(5),
			wantCurrent: 2,
			wantLongest: 3,
		},
		{
			name:  "weekly ISO weeks one through four",
			habit: weeklyHabit,
			completions: completionsOn(weeklyHabit,
				time.Date(2025, time.December, 31, 9, 0, 0, 0, time.UTC), // 2026-W01
				day(6),  // 2026-W02
				day(15), // 2026-W03
				day(19), // 2026-W04
			),
			now:         day(22),
			wantCurrent: 4,
			wantLongest: 4,
		},
		{
			name:        "weekly streak alive during following week",
			habit:       weeklyHabit,
			completions: completionsOn(weeklyHabit, day(5), day(12)),
			now:         day(21),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "weekly streak broken after a skipped week",
			habit:       weeklyHabit,
			completions: completionsOn(weeklyHabit, day(5), day(12)),
			now:         day(26),
			wantCurrent: 0,
			wantLongest: 2,
		},
		{
			name:        "same day completions count once",
			habit:       dailyHabit,
			completions: completionsOn(dailyHabit, day(3), day(3).Add(time.Hour), day(4)),
			now:         day(4),
			wantCurrent: 2,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.habit, tt.completions, tt.now)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
			if got.HabitID != tt.habit.ID {
				t.Errorf("HabitID = %q, want %q", got.HabitID, tt.habit.ID)
			}
		})
	}
}

func TestCalculateReportsLastPeriodAndTotal(t *testing.T) {
	got, err := Calculate(dailyHabit, completionsOn(dailyHabit, day(2), day(1), day(2), day(9)), day(9))
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.Total != 3 {
		t.Errorf("Total = %d, want 3", got.Total)
	}
	if got.LastPeriod == nil || got.LastPeriod.String() != "2026-01-09" {
		t.Errorf("LastPeriod = %v, want 2026-01-09", got.LastPeriod)
	}

	empty, _ := Calculate(dailyHabit, nil, day(9))
	if empty.LastPeriod != nil {
		t.Errorf("LastPeriod = %v, want nil", empty.LastPeriod)
	}
}

func TestCalculateIgnoresOtherHabits(t *testing.T) {
	completions := append(completionsOn(dailyHabit, day(1)), completionsOn(weeklyHabit, day(2), day(3))...)

	got, _ := Calculate(dailyHabit, completions, day(1))
	if got.Longest != 1 || got.Total != 1 {
		t.Errorf("got %+v, want only the daily habit's completion", got)
	}
}

func TestLongestIsMonotonicAndKeepsMaxAcrossGap(t *testing.T) {
	var completions []models.Completion
	prev := 0
	for d := 1; d <= 5; d++ {
		completions = append(completions, completionsOn(dailyHabit, day(d))...)
		got, err := Longest(dailyHabit, completions)
		if err != nil {
			t.Fatalf("Longest() error = %v", err)
		}
		if got < prev {
			t.Fatalf("longest decreased from %d to %d after adding day %d", prev, got, d)
		}
		if got != d {
			t.Errorf("after %d consecutive days longest = %d", d, got)
		}
		prev = got
	}

	// A gap starts a new run but never lowers the maximum
	completions = append(completions, completionsOn(dailyHabit, day(8), day(9))...)
	got, _ := Longest(dailyHabit, completions)
	if got != 5 {
		t.Errorf("longest after gap = %d, want 5", got)
	}

	result, _ := Calculate(dailyHabit, completions, day(9))
	if result.Current != 2 {
		t.Errorf("current after gap = %d, want 2", result.Current)
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	completions := completionsOn(dailyHabit, day(1), day(2), day(4))

	first, _ := Calculate(dailyHabit, completions, day(4))
	second, _ := Calculate(dailyHabit, completions, day(4))

	if first.Current != second.Current || first.Longest != second.Longest || first.Total != second.Total {
		t.Errorf("repeated calculation differs: %+v vs %+v", first, second)
	}
}

func TestCalculateInvalidPeriodicity(t *testing.T) {
	habit := dailyHabit
	habit.Periodicity = "yearly"

	_, err := Calculate(habit, completionsOn(habit, day(1)), day(1))
	if !errors.Is(err, apperrors.ErrConfiguration) {
		t.Errorf("Calculate() error = %v, want ConfigurationError", err)
	}
}

func TestAtRisk(t *testing.T) {
	tests := []struct {
		name        string
		completions []models.Completion
		now         time.Time
		want        bool
	}{
		{name: "completed yesterday only", completions: completionsOn(dailyHabit, day(8), day(9)), now: day(10), want: true},
		{name: "already completed today", completions: completionsOn(dailyHabit, day(9), day(10)), now: day(10), want: false},
		{name: "streak already broken", completions: completionsOn(dailyHabit, day(5)), now: day(10), want: false},
		{name: "no completions", now: day(10), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AtRisk(dailyHabit, tt.completions, tt.now)
			if err != nil {
				t.Fatalf("AtRisk() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AtRisk() = %v, want %v", got, tt.want)
			}
		})
	}
}
