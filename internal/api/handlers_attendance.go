package api

import (
	"context"
	"net/http"

	"github.com/starford/yeargoals/internal/attendance"
)

// AttendanceToday handles GET /api/attendance/today.
//
//	@Summary		Today's attendance with live totals
//	@Tags			attendance
//	@Produce		json
//	@Success		200	{object}	AttendanceResponse
//	@Security		BearerAuth
//	@Router			/attendance/today [get]
func (h *Handler) AttendanceToday(w http.ResponseWriter, r *http.Request) {
	s, err := h.Attendance.Today(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "attendance today", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// AttendanceHistory handles GET /api/attendance/history?from=&to=.
func (h *Handler) AttendanceHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Attendance.History(r.Context(), UserID(r.Context()), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, "attendance history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": items})
}

// ClockIn handles POST /api/attendance/clock-in.
//
//	@Summary		Start the working day
//	@Tags			attendance
//	@Produce		json
//	@Success		200	{object}	AttendanceResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/attendance/clock-in [post]
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "clock in", h.Attendance.ClockIn)
}

// ClockOut handles POST /api/attendance/clock-out.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "clock out", h.Attendance.ClockOut)
}

// StartBreak handles POST /api/attendance/break-start.
func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "break start", h.Attendance.StartBreak)
}

// EndBreak handles POST /api/attendance/break-end.
func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "break end", h.Attendance.EndBreak)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, string) (attendance.Summary, error)) {
	s, err := fn(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
