// Package clock is the single source of "now" and of calendar date keys.
package clock

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/starford/yeargoals/internal/apperr"
)

// DateLayout is the calendar date key format.
const DateLayout = "2006-01-02"

// Clock supplies the current instant and the location used to derive date keys.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// System reads the wall clock and derives dates in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem returns a System clock for the named IANA zone ("" means UTC).
func NewSystem(zone string) (*System, error) {
	if zone == "" {
		return &System{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("clock: load location %q: %w", zone, err)
	}
	return &System{loc: loc}, nil
}

func (s *System) Now() time.Time           { return time.Now().UTC() }
func (s *System) Location() *time.Location { return s.loc }

// Fixed always returns the same instant. Set moves it.
type Fixed struct {
	T   time.Time
	Loc *time.Location
}

func (f *Fixed) Now() time.Time { return f.T }

func (f *Fixed) Location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) { f.T = t }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }

// Today returns the date key of c.Now() in the clock's location.
func Today(c Clock) string {
	return DateKey(c.Now(), c.Location())
}

// DateKey formats t as YYYY-MM-DD in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD key and returns midnight UTC of that date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Invalid("date", "expected YYYY-MM-DD")
	}
	return d, nil
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	d, err := ParseDate(key)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}
