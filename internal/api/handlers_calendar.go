package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/yeargoals/internal/calendar"
)

// ListDays handles GET /api/calendar-days.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.Calendar.ListDays(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "list days", err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// GetDay handles GET /api/calendar-days/{date}.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	d, err := h.Calendar.GetDay(r.Context(), UserID(r.Context()), chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, "get day", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ToggleDay handles POST /api/calendar-days/{date}/toggle.
//
//	@Summary		Mark or un-mark a day as completed
//	@Tags			calendar
//	@Produce		json
//	@Param			date	path		string	true	"YYYY-MM-DD"
//	@Success		200		{object}	ToggleDayResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/calendar-days/{date}/toggle [post]
func (h *Handler) ToggleDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	d, err := h.Calendar.ToggleDay(r.Context(), UserID(r.Context()), date)
	if err != nil {
		writeError(w, "toggle day", err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleDayResponse{Date: date, Completed: d != nil && d.Completed})
}

// SetNote handles PUT /api/calendar-days/{date}/note.
func (h *Handler) SetNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "set note", err)
		return
	}
	d, err := h.Calendar.SetNote(r.Context(), UserID(r.Context()), chi.URLParam(r, "date"), req.Note, req.DayGoal)
	if err != nil {
		writeError(w, "set note", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDay handles DELETE /api/calendar-days/{date}.
func (h *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	if err := h.Calendar.DeleteDay(r.Context(), UserID(r.Context()), chi.URLParam(r, "date")); err != nil {
		writeError(w, "delete day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/analytics/stats?year=.
//
//	@Summary		Completion statistics for one year
//	@Tags			analytics
//	@Produce		json
//	@Param			year	query		int	false	"Year, defaults to the current one"
//	@Success		200		{object}	models.CompletionStats
//	@Security		BearerAuth
//	@Router			/analytics/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Calendar.Stats(r.Context(), UserID(r.Context()), calendar.ParseYear(r.URL.Query().Get("year")))
	if err != nil {
		writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Streak handles GET /api/analytics/streak.
func (h *Handler) Streak(w http.ResponseWriter, r *http.Request) {
	n, err := h.Calendar.Streak(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "streak", err)
		return
	}
	writeJSON(w, http.StatusOK, StreakResponse{Streak: n})
}

// GetUserGoal handles GET /api/user-goal.
func (h *Handler) GetUserGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.Goals.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "get user goal", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// SetUserGoal handles POST /api/user-goal.
func (h *Handler) SetUserGoal(w http.ResponseWriter, r *http.Request) {
	var req UserGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "set user goal", err)
		return
	}
	g, err := h.Goals.Set(r.Context(), UserID(r.Context()), req.Goal)
	if err != nil {
		writeError(w, "set user goal", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
