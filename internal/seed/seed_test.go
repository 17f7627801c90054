package seed

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/tracker"
)

func setupSeededTracker(t *testing.T, now time.Time) (*tracker.Tracker, Result) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	res, err := Run(store, now)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return tracker.New(store, func() time.Time { return now }, time.UTC), res
}

func TestRunCounts(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tr, res := setupSeededTracker(t, now)

	if res.Habits != 5 || res.Completions != 71 {
		t.Errorf("Run() = %+v, want 5 habits and 71 completions", res)
	}

	habits, err := tr.Habits()
	if err != nil {
		t.Fatalf("Habits failed: %v", err)
	}
	if len(habits) != len(fixtures) {
		t.Fatalf("expected %d habits, got %d", len(fixtures), len(habits))
	}
	wantStart := time.Date(2026, 9, 21, 18, 0, 0, 0, time.UTC)
	for i, h := range habits {
		if h.Name != fixtures[i].name {
			t.Errorf("habit %d = %s, want %s", i, h.Name, fixtures[i].name)
		}
		want := wantStart.Add(time.Duration(i) * time.Millisecond)
		if !h.CreatedAt.Equal(want) {
			t.Errorf("%s created at %v, want %v", h.Name, h.CreatedAt, want)
		}
	}

	weekly, err := tr.FilterByPeriodicity(models.Weekly)
	if err != nil || len(weekly) != 2 {
		t.Errorf("FilterByPeriodicity(weekly) = %v, %v", weekly, err)
	}
}

func TestRunStreaks(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	tr, _ := setupSeededTracker(t, now)

	tests := []struct {
		name    string
		current int
		longest int
	}{
		{"Morning stretch", 4, 5},
		{"No sugary drink", 3, 3},
		{"Study session", 1, 2},
		{"Weekly cleaning", 4, 4},
		{"Budget review", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tr.Streak(tt.name)
			if err != nil {
				t.Fatalf("Streak failed: %v", err)
			}
			if res.Current != tt.current || res.Longest != tt.longest {
				t.Errorf("Streak() = current %d longest %d, want %d and %d", res.Current, res.Longest, tt.current, tt.longest)
			}
		})
	}

	leader, err := tr.LongestOverall()
	if err != nil {
		t.Fatalf("LongestOverall failed: %v", err)
	}
	if leader.Habit.Name != "Morning stretch" || leader.Streak != 5 {
		t.Errorf("LongestOverall() = %s with %d", leader.Habit.Name, leader.Streak)
	}
}

func TestRunRefusesNonEmptyStore(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	if _, err := Run(store, now); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if _, err := Run(store, now); !errors.Is(err, ErrNotEmpty) {
		t.Errorf("second Run error = %v, want ErrNotEmpty", err)
	}
}
