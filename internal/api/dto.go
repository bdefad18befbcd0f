package api

import (
	"github.com/starford/yeargoals/internal/account"
	"github.com/starford/yeargoals/internal/attendance"
	"github.com/starford/yeargoals/internal/social"
)

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" example:"ana@example.com" validate:"required"`
	Password string `json:"password" example:"hunter22" validate:"required"`
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest = account.Registration

// ProfileRequest is the request body for PUT /auth/profile.
type ProfileRequest = account.Profile

// SessionResponse is returned by register and login.
type SessionResponse = account.Session

// AttendanceResponse is the derived view of one attendance day.
type AttendanceResponse = attendance.Summary

// NoteRequest is the request body for PUT /calendar-days/{date}/note.
type NoteRequest struct {
	Note    *string `json:"note" example:"ran 5k"`
	DayGoal *string `json:"dayGoal" example:"10 pages"`
}

// ToggleDayResponse reports the state of a day after a toggle.
type ToggleDayResponse struct {
	Date      string `json:"date" example:"2026-03-14" validate:"required"`
	Completed bool   `json:"completed" validate:"required"`
}

// StreakResponse wraps the current streak.
type StreakResponse struct {
	Streak int `json:"streak" example:"3" validate:"required"`
}

// UserGoalRequest is the request body for POST /user-goal.
type UserGoalRequest struct {
	Goal string `json:"goal" example:"Read 24 books" validate:"required"`
}

// WhatsAppToggleRequest is the request body for POST /whatsapp/toggle.
type WhatsAppToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// ReminderLinkResponse carries the client-openable deep link.
type ReminderLinkResponse struct {
	URL string `json:"url" example:"https://wa.me/15550100200?text=..." validate:"required"`
}

// LikeResponse is the state of a post after a like toggle.
type LikeResponse = social.LikeResult
