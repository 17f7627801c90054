package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
)

// Periodicity is the cadence at which a habit must be completed
type Periodicity string

const (
	Daily  Periodicity = constants.PeriodicityDaily
	Weekly Periodicity = constants.PeriodicityWeekly
)

const secondsPerDay = 24 * 60 * 60

// epochWeekOffset shifts day numbers so that Monday 1969-12-29 starts week 0
const epochWeekOffset = 3

// Periodicities lists every supported periodicity in display order
func Periodicities() []Periodicity {
	return []Periodicity{Daily, Weekly}
}

// ParsePeriodicity converts user or storage input into a Periodicity.
func ParsePeriodicity(s string) (Periodicity, error) {
	p := Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate returns a ConfigurationError for anything other than Daily or Weekly.
func (p Periodicity) Validate() error {
	switch p {
	case Daily, Weekly:
		return nil
	default:
		return apperrors.NewConfigurationError("periodicity", string(p))
	}
}

func (p Periodicity) String() string {
	return string(p)
}

// Unit returns the noun for one period, e.g. "day"
func (p Periodicity) Unit() string {
	if p == Weekly {
		return "week"
	}
	return "day"
}

// PeriodKey identifies the calendar period a timestamp falls in.
// Keys of the same periodicity are totally ordered by Index.
type PeriodKey struct {
	Periodicity Periodicity
	// Index is days since 1970-01-01 for daily keys and Monday-aligned weeks for weekly keys
	Index int64
	// Year is the calendar year (daily) or ISO year (weekly)
	Year int
	// Number is the day of the year (daily) or ISO week (weekly)
	Number int
}

// Key returns the period key of t. The calendar date is taken in t's own location.
func (p Periodicity) Key(t time.Time) (PeriodKey, error) {
	day := civilDay(t)
	switch p {
	case Daily:
		return PeriodKey{
			Periodicity: p,
			Index:       day,
			Year:        t.Year(),
			Number:      t.YearDay(),
		}, nil
	case Weekly:
		year, week := t.ISOWeek()
		monday := day - int64(daysSinceMonday(t))
		return PeriodKey{
			Periodicity: p,
			Index:       (monday + epochWeekOffset) / 7,
			Year:        year,
			Number:      week,
		}, nil
	default:
		return PeriodKey{}, p.Validate()
	}
}

// IsConsecutive reports whether b immediately follows a in period order.
func (p Periodicity) IsConsecutive(a, b PeriodKey) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if a.Periodicity != p || b.Periodicity != p {
		return false, nil
	}
	return b.Index == a.Index+1, nil
}

// Start returns the first instant of the period containing t, in t's location.
func (p Periodicity) Start(t time.Time) (time.Time, error) {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	switch p {
	case Daily:
		return midnight, nil
	case Weekly:
		return midnight.AddDate(0, 0, -daysSinceMonday(t)), nil
	default:
		return time.Time{}, p.Validate()
	}
}

// Before reports whether k sorts before other
func (k PeriodKey) Before(other PeriodKey) bool {
	return k.Index < other.Index
}

// String renders the key as 2026-10-18 (daily) or 2026-W42 (weekly)
func (k PeriodKey) String() string {
	switch k.Periodicity {
	case Daily:
		return time.Date(k.Year, time.January, k.Number, 0, 0, 0, 0, time.UTC).Format(constants.DateFormat)
	case Weekly:
		return fmt.Sprintf(constants.WeekFormat, k.Year, k.Number)
	default:
		return ""
	}
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
