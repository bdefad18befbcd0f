package models

import "time"

// CalendarDay is the per-user, per-date completion entry.
type CalendarDay struct {
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	Note      *string   `json:"note,omitempty"`
	DayGoal   *string   `json:"dayGoal,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserGoal is the single current free-text goal of a user.
type UserGoal struct {
	UserID    string    `json:"userId"`
	Goal      string    `json:"goal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompletionStats summarizes the calendar days a user touched in one year.
type CompletionStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}
