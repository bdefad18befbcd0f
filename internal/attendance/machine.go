// Package attendance implements the per-day work session state machine and
// the derived working and break totals.
package attendance

import (
	"time"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/models"
)

// ClockIn starts the working day. Re-entry while working or on a break leaves
// the record unchanged; once checked out the day is closed.
func ClockIn(rec *models.AttendanceRecord, now time.Time) error {
	switch rec.Status() {
	case models.StatusNotStarted:
		rec.CheckInTime = &now
		return nil
	case models.StatusCheckedOut:
		return apperr.Transition("already clocked out for today")
	default:
		return nil
	}
}

// StartBreak opens a new break. Only allowed while working.
func StartBreak(rec *models.AttendanceRecord, now time.Time) error {
	if rec.Status() != models.StatusWorking {
		return apperr.Transition("can only start a break while working")
	}
	rec.Breaks = append(rec.Breaks, models.Break{StartTime: now})
	return nil
}

// EndBreak closes the open break. Only allowed while on a break.
func EndBreak(rec *models.AttendanceRecord, now time.Time) error {
	if rec.Status() != models.StatusOnBreak {
		return apperr.Transition("not on a break")
	}
	i := rec.OpenBreak()
	if i < 0 {
		return apperr.ErrInconsistentState
	}
	rec.Breaks[i].EndTime = &now
	return nil
}

// ClockOut ends the working day, closing an open break at the same instant.
func ClockOut(rec *models.AttendanceRecord, now time.Time) error {
	if rec.CheckInTime == nil {
		return apperr.Precondition("must clock in first")
	}
	if rec.Status() == models.StatusCheckedOut {
		return apperr.Transition("already clocked out for today")
	}
	if i := rec.OpenBreak(); i >= 0 {
		rec.Breaks[i].EndTime = &now
	}
	rec.CheckOutTime = &now
	return nil
}

// Summary is the read view of a record with totals derived at a given instant.
type Summary struct {
	Date              string                  `json:"date"`
	Status            models.AttendanceStatus `json:"status"`
	CheckInTime       *time.Time              `json:"checkInTime,omitempty"`
	CheckOutTime      *time.Time              `json:"checkOutTime,omitempty"`
	WorkingMinutes    int                     `json:"workingMinutes"`
	BreakMinutes      int                     `json:"breakMinutes"`
	CurrentBreakStart *time.Time              `json:"currentBreakStart,omitempty"`
	Breaks            []models.Break          `json:"breaks"`
}

// Summarize derives status and totals for rec as of now.
// Each interval is truncated to whole minutes on its own.
func Summarize(rec *models.AttendanceRecord, now time.Time) Summary {
	s := Summary{
		Date:         rec.Date,
		Status:       rec.Status(),
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: rec.CheckOutTime,
		Breaks:       rec.Breaks,
	}
	if s.Breaks == nil {
		s.Breaks = []models.Break{}
	}
	if i := rec.OpenBreak(); i >= 0 {
		start := rec.Breaks[i].StartTime
		s.CurrentBreakStart = &start
	}

	for _, b := range rec.Breaks {
		end := now
		if b.EndTime != nil {
			end = *b.EndTime
		}
		s.BreakMinutes += minutes(end.Sub(b.StartTime))
	}

	if rec.CheckInTime != nil {
		end := now
		if rec.CheckOutTime != nil {
			end = *rec.CheckOutTime
		}
		s.WorkingMinutes = max(0, minutes(end.Sub(*rec.CheckInTime))-s.BreakMinutes)
	}
	return s
}

// minutes floors d to whole minutes; negative spans count as zero.
func minutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
