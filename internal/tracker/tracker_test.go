package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func setupTestTracker(t *testing.T, start time.Time) (*Tracker, *fakeClock) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := &fakeClock{now: start}
	return New(store, clock.Now, time.UTC), clock
}

func day(d int, hour int) time.Time {
	return time.Date(2026, 10, d, hour, 0, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, tr *Tracker, name string, p models.Periodicity) models.Habit {
	t.Helper()
	h, err := tr.CreateHabit(name, "", p)
	if err != nil {
		t.Fatalf("CreateHabit(%s) failed: %v", name, err)
	}
	return h
}

func mustRecord(t *testing.T, tr *Tracker, ref string, at time.Time) {
	t.Helper()
	if _, err := tr.RecordCompletion(ref, at); err != nil {
		t.Fatalf("RecordCompletion(%s, %v) failed: %v", ref, at, err)
	}
}

func TestCreateHabit(t *testing.T) {
	tr, _ := setupTestTracker(t, day(1, 9))

	h, err := tr.CreateHabit("  read  ", "twenty pages", models.Daily)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if h.ID == "" || h.Name != "read" || h.Description != "twenty pages" || !h.CreatedAt.Equal(day(1, 9)) {
		t.Errorf("unexpected habit: %+v", h)
	}

	if _, err := tr.CreateHabit("read", "", models.Weekly); !errors.Is(err, apperrors.ErrDuplicateHabit) {
		t.Errorf("duplicate name: got %v", err)
	}
	if _, err := tr.CreateHabit("stretch", "", models.Periodicity("monthly")); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Errorf("invalid periodicity: got %v", err)
	}
	if _, err := tr.CreateHabit("   ", "", models.Daily); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Errorf("empty name: got %v", err)
	}

	habits, err := tr.Habits()
	if err != nil {
		t.Fatalf("Habits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected 1 habit, got %d", len(habits))
	}
}

func TestHabitLookupByIDAndName(t *testing.T) {
	tr, _ := setupTestTracker(t, day(1, 9))
	created := mustCreate(t, tr, "read", models.Daily)

	byID, err := tr.Habit(created.ID)
	if err != nil || byID.Name != "read" {
		t.Errorf("Habit(id) = %+v, %v", byID, err)
	}
	byName, err := tr.Habit("read")
	if err != nil || byName.ID != created.ID {
		t.Errorf("Habit(name) = %+v, %v", byName, err)
	}

	_, err = tr.Habit("nope")
	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) || nf.Ref != "nope" {
		t.Errorf("Habit(unknown) error = %v", err)
	}
}

func TestRecordCompletionAndStreaks(t *testing.T) {
	tr, clock := setupTestTracker(t, day(10, 8))
	mustCreate(t, tr, "read", models.Daily)

	for _, d := range []int{10, 11, 12, 14, 15} {
		mustRecord(t, tr, "read", day(d, 9))
	}

	clock.now = day(15, 21)
	res, err := tr.Streak("read")
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if res.Current != 2 || res.Longest != 3 || res.Total != 5 {
		t.Errorf("Streak() = %+v, want current 2 longest 3 total 5", res)
	}

	longest, err := tr.LongestStreak("read")
	if err != nil || longest != 3 {
		t.Errorf("LongestStreak() = %d, %v", longest, err)
	}

	// Two days later the current streak has lapsed.
	clock.now = day(17, 9)
	res, _ = tr.Streak("read")
	if res.Current != 0 || res.Longest != 3 {
		t.Errorf("lapsed Streak() = %+v", res)
	}
}

func TestRecordCompletionDuplicatePeriod(t *testing.T) {
	tr, _ := setupTestTracker(t, day(12, 8))
	mustCreate(t, tr, "read", models.Daily)
	mustCreate(t, tr, "gym", models.Weekly)

	mustRecord(t, tr, "read", day(12, 7))
	_, err := tr.RecordCompletion("read", day(12, 22))
	var dup *apperrors.DuplicateCompletionError
	if !errors.As(err, &dup) || dup.Period != "2026-10-12" {
		t.Errorf("daily duplicate error = %v", err)
	}

	// 2026-10-12 is a Monday and 2026-10-18 the Sunday of the same ISO week.
	mustRecord(t, tr, "gym", day(12, 18))
	_, err = tr.RecordCompletion("gym", day(18, 18))
	if !errors.Is(err, apperrors.ErrDuplicateCompletion) {
		t.Errorf("weekly duplicate error = %v", err)
	}
	mustRecord(t, tr, "gym", day(19, 18))

	h, err := tr.History("read")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(h.Completions) != 1 {
		t.Errorf("duplicate was stored: %d completions", len(h.Completions))
	}

	if _, err := tr.RecordCompletion("ghost", day(12, 7)); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown habit error = %v", err)
	}
}

func TestRecordCompletionUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	clock := &fakeClock{now: day(10, 0)}
	tr := New(store, clock.Now, tokyo)
	mustCreate(t, tr, "read", models.Daily)

	// 14:30 UTC on the 12th and 16:00 UTC on the 12th fall on the 12th and 13th in Tokyo.
	mustRecord(t, tr, "read", time.Date(2026, 10, 12, 14, 30, 0, 0, time.UTC))
	mustRecord(t, tr, "read", time.Date(2026, 10, 12, 16, 0, 0, 0, time.UTC))

	clock.now = time.Date(2026, 10, 13, 3, 0, 0, 0, time.UTC)
	res, err := tr.Streak("read")
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if res.Current != 2 || res.LastPeriod == nil || res.LastPeriod.String() != "2026-10-13" {
		t.Errorf("Streak() = %+v", res)
	}
}

func TestRecordCompletionAfterTimezoneChange(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name  string
		store func(dir string) storage.Provider
	}{
		{"sqlite", func(dir string) storage.Provider { return sqlite.NewStore(filepath.Join(dir, "habitual.db")) }},
		{"json", func(dir string) storage.Provider { return storage.NewJSONStore(filepath.Join(dir, "habitual.json")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store(t.TempDir())
			if err := store.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer store.Close()

			clock := &fakeClock{now: day(10, 12)}
			utc := New(store, clock.Now, time.UTC)
			mustCreate(t, utc, "read", models.Daily)

			// 02:00 UTC on the 19th is labelled 2026-10-19 but falls on the 18th in New York.
			mustRecord(t, utc, "read", day(19, 2))

			ny := New(store, clock.Now, newYork)
			noon := time.Date(2026, 10, 19, 12, 0, 0, 0, newYork)
			mustRecord(t, ny, "read", noon)

			_, err := ny.RecordCompletion("read", noon.Add(6*time.Hour))
			var dup *apperrors.DuplicateCompletionError
			if !errors.As(err, &dup) || dup.Period != "2026-10-19" {
				t.Errorf("second completion on the 19th in New York: got %v", err)
			}
			if _, err := ny.RecordCompletion("read", time.Date(2026, 10, 18, 20, 0, 0, 0, newYork)); !errors.Is(err, apperrors.ErrDuplicateCompletion) {
				t.Errorf("completion on the 18th in New York: got %v", err)
			}

			clock.now = noon.Add(8 * time.Hour)
			res, err := ny.Streak("read")
			if err != nil {
				t.Fatalf("Streak failed: %v", err)
			}
			if res.Current != 2 || res.Total != 2 {
				t.Errorf("Streak() = %+v, want current 2 and total 2", res)
			}
		})
	}
}

func TestLongestOverallTieWithinOneSecond(t *testing.T) {
	base := time.Date(2026, 10, 18, 9, 0, 0, 100_000_000, time.UTC)
	tr, clock := setupTestTracker(t, base)

	mustCreate(t, tr, "first", models.Daily)
	clock.now = base.Add(500 * time.Millisecond)
	mustCreate(t, tr, "second", models.Daily)

	mustRecord(t, tr, "second", day(18, 10))
	mustRecord(t, tr, "first", day(18, 11))

	habits, err := tr.Habits()
	if err != nil {
		t.Fatalf("Habits failed: %v", err)
	}
	if names(habits) != "first,second" {
		t.Errorf("Habits() = %s, want first,second", names(habits))
	}

	leader, err := tr.LongestOverall()
	if err != nil || leader.Habit.Name != "first" || leader.Streak != 1 {
		t.Errorf("LongestOverall() = %+v, %v, want first with 1", leader, err)
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	tr, clock := setupTestTracker(t, day(1, 8))
	mustCreate(t, tr, "read", models.Daily)
	mustCreate(t, tr, "walk", models.Daily)

	for d := 1; d <= 7; d++ {
		mustRecord(t, tr, "read", day(d, 9))
	}
	mustRecord(t, tr, "walk", day(7, 9))
	clock.now = day(7, 20)

	leader, err := tr.LongestOverall()
	if err != nil || leader.Habit.Name != "read" || leader.Streak != 7 {
		t.Fatalf("LongestOverall() = %+v, %v", leader, err)
	}

	deleted, err := tr.DeleteHabit("read")
	if err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if deleted.Name != "read" {
		t.Errorf("DeleteHabit returned %+v", deleted)
	}

	leader, err = tr.LongestOverall()
	if err != nil || leader.Habit.Name != "walk" || leader.Streak != 1 {
		t.Errorf("LongestOverall() after delete = %+v, %v", leader, err)
	}
	if _, err := tr.Habit("read"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("deleted habit still resolvable: %v", err)
	}
	if _, err := tr.DeleteHabit("read"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second delete error = %v", err)
	}

	// A new habit under the old name starts from nothing.
	mustCreate(t, tr, "read", models.Daily)
	n, err := tr.LongestStreak("read")
	if err != nil || n != 0 {
		t.Errorf("LongestStreak() of recreated habit = %d, %v", n, err)
	}
}

func TestAnalyticsQueries(t *testing.T) {
	tr, clock := setupTestTracker(t, day(5, 8))
	mustCreate(t, tr, "read", models.Daily)
	clock.now = clock.now.Add(time.Minute)
	mustCreate(t, tr, "gym", models.Weekly)
	clock.now = clock.now.Add(time.Minute)
	mustCreate(t, tr, "floss", models.Daily)

	mustRecord(t, tr, "read", day(17, 9))
	mustRecord(t, tr, "read", day(18, 9))
	mustRecord(t, tr, "floss", day(16, 9))
	mustRecord(t, tr, "floss", day(17, 9))
	mustRecord(t, tr, "gym", day(8, 9))
	clock.now = day(18, 20)

	due, err := tr.DueToday()
	if err != nil {
		t.Fatalf("DueToday failed: %v", err)
	}
	if names(due) != "gym,floss" {
		t.Errorf("DueToday() = %s, want gym,floss", names(due))
	}

	daily, err := tr.FilterByPeriodicity(models.Daily)
	if err != nil || names(daily) != "read,floss" {
		t.Errorf("FilterByPeriodicity(daily) = %s, %v", names(daily), err)
	}
	if _, err := tr.FilterByPeriodicity(models.Periodicity("hourly")); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Errorf("FilterByPeriodicity(invalid) error = %v", err)
	}

	risky, err := tr.AtRisk()
	if err != nil {
		t.Fatalf("AtRisk failed: %v", err)
	}
	// gym last completed in W41, now is W42: still alive and not done this week.
	if len(risky) != 2 || risky[0].Habit.Name != "gym" || risky[1].Habit.Name != "floss" {
		t.Errorf("AtRisk() = %+v", risky)
	}

	rows, err := tr.StreaksPerHabit()
	if err != nil {
		t.Fatalf("StreaksPerHabit failed: %v", err)
	}
	if len(rows) != 3 || rows[0].Result.Current != 2 || rows[2].Result.Current != 2 {
		t.Errorf("StreaksPerHabit() = %+v", rows)
	}
}

func TestEmptyTracker(t *testing.T) {
	tr, _ := setupTestTracker(t, day(18, 8))

	leader, err := tr.LongestOverall()
	if err != nil || leader.Found {
		t.Errorf("LongestOverall() on empty = %+v, %v", leader, err)
	}
	due, err := tr.DueToday()
	if err != nil || len(due) != 0 {
		t.Errorf("DueToday() on empty = %v, %v", due, err)
	}
}

func TestTrackerWithJSONStore(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitual.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	clock := &fakeClock{now: day(12, 8)}
	tr := New(store, clock.Now, time.UTC)

	mustCreate(t, tr, "read", models.Daily)
	mustRecord(t, tr, "read", day(12, 9))
	if _, err := tr.RecordCompletion("read", day(12, 10)); !errors.Is(err, apperrors.ErrDuplicateCompletion) {
		t.Errorf("duplicate error = %v", err)
	}
	mustRecord(t, tr, "read", day(13, 9))

	clock.now = day(13, 20)
	res, err := tr.Streak("read")
	if err != nil || res.Current != 2 {
		t.Errorf("Streak() = %+v, %v", res, err)
	}
}

func names(habits []models.Habit) string {
	out := ""
	for i, h := range habits {
		if i > 0 {
			out += ","
		}
		out += h.Name
	}
	return out
}
