package api

import (
	"net/http"
	"time"

	"github.com/starford/yeargoals/internal/account"
	"github.com/starford/yeargoals/internal/attendance"
	"github.com/starford/yeargoals/internal/calendar"
	"github.com/starford/yeargoals/internal/goal"
	"github.com/starford/yeargoals/internal/planner"
	"github.com/starford/yeargoals/internal/reminder"
	"github.com/starford/yeargoals/internal/social"
)

// Services groups the domain services the handlers call.
type Services struct {
	Accounts   *account.Service
	Attendance *attendance.Service
	Calendar   *calendar.Service
	Goals      *goal.Service
	Planner    *planner.Service
	Social     *social.Service
	Reminders  *reminder.Service
}

// Handler holds API route handlers.
type Handler struct {
	Services
	tokenTTL time.Duration
}

// NewHandler creates a new Handler. tokenTTL sets the session cookie lifetime.
func NewHandler(svcs Services, tokenTTL time.Duration) *Handler {
	return &Handler{Services: svcs, tokenTTL: tokenTTL}
}

// Register handles POST /api/auth/register.
//
//	@Summary		Create an account and start a session
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RegisterRequest	true	"Sign-up form"
//	@Success		201		{object}	SessionResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Router			/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "register", err)
		return
	}
	sess, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, "register", err)
		return
	}
	h.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusCreated, sess)
}

// Login handles POST /api/auth/login.
//
//	@Summary		Start a session
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	SessionResponse
//	@Failure		401		{object}	errResponse
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "login", err)
		return
	}
	sess, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, "login", err)
		return
	}
	h.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusOK, sess)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CurrentUser handles GET /api/auth/user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Accounts.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "update profile", err)
		return
	}
	u, err := h.Accounts.UpdateProfile(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeError(w, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ToggleWhatsApp handles POST /api/whatsapp/toggle.
func (h *Handler) ToggleWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req WhatsAppToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "toggle whatsapp", err)
		return
	}
	if _, err := h.Accounts.SetWhatsAppNotifications(r.Context(), UserID(r.Context()), req.Enabled); err != nil {
		writeError(w, "toggle whatsapp", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ReminderLink handles GET /api/whatsapp/reminder-link.
//
//	@Summary		Build the WhatsApp reminder link for today
//	@Tags			reminders
//	@Produce		json
//	@Success		200	{object}	ReminderLinkResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/whatsapp/reminder-link [get]
func (h *Handler) ReminderLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.Reminders.Link(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "reminder link", err)
		return
	}
	writeJSON(w, http.StatusOK, ReminderLinkResponse{URL: link})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
