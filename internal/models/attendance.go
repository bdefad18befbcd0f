// Package models defines the domain types for yeargoals.
package models

import "time"

// AttendanceStatus is the derived state of an attendance record.
type AttendanceStatus string

const (
	StatusNotStarted AttendanceStatus = "not-started"
	StatusWorking    AttendanceStatus = "working"
	StatusOnBreak    AttendanceStatus = "on-break"
	StatusCheckedOut AttendanceStatus = "checked-out"
)

// Break is one pause inside a working day. EndTime is nil while the break is open.
type Break struct {
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Open reports whether the break has not been ended yet.
func (b Break) Open() bool {
	return b.EndTime == nil
}

// AttendanceRecord tracks one user's work session for one calendar date.
// Status is never stored; it is derived from the timestamps.
type AttendanceRecord struct {
	UserID       string     `json:"userId"`
	Date         string     `json:"date"`
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	Breaks       []Break    `json:"breaks"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Status derives the state from check-in, check-out and the trailing break.
func (r *AttendanceRecord) Status() AttendanceStatus {
	switch {
	case r.CheckInTime == nil:
		return StatusNotStarted
	case r.CheckOutTime != nil:
		return StatusCheckedOut
	case r.OpenBreak() >= 0:
		return StatusOnBreak
	default:
		return StatusWorking
	}
}

// OpenBreak returns the index of the open break, or -1.
// Only the last break can be open.
func (r *AttendanceRecord) OpenBreak() int {
	if n := len(r.Breaks); n > 0 && r.Breaks[n-1].Open() {
		return n - 1
	}
	return -1
}
