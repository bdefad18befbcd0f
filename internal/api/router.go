package api

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// RouterConfig controls authentication of the API routes.
// A nil Tokens puts every request under DevUserID.
type RouterConfig struct {
	Tokens    TokenParser
	DevUserID string
	TokenTTL  time.Duration
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svcs Services, cfg RouterConfig) chi.Router {
	h := NewHandler(svcs, cfg.TokenTTL)

	r := chi.NewRouter()

	// Session routes are public.
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens, cfg.DevUserID))

		r.Get("/auth/user", h.CurrentUser)
		r.Put("/auth/profile", h.UpdateProfile)

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/today", h.AttendanceToday)
			r.Get("/history", h.AttendanceHistory)
			r.Post("/clock-in", h.ClockIn)
			r.Post("/clock-out", h.ClockOut)
			r.Post("/break-start", h.StartBreak)
			r.Post("/break-end", h.EndBreak)
		})

		r.Route("/calendar-days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Get("/{date}", h.GetDay)
			r.Delete("/{date}", h.DeleteDay)
			r.Post("/{date}/toggle", h.ToggleDay)
			r.Put("/{date}/note", h.SetNote)
		})

		r.Get("/analytics/stats", h.Stats)
		r.Get("/analytics/streak", h.Streak)

		r.Get("/user-goal", h.GetUserGoal)
		r.Post("/user-goal", h.SetUserGoal)

		r.Post("/whatsapp/toggle", h.ToggleWhatsApp)
		r.Get("/whatsapp/reminder-link", h.ReminderLink)

		r.Get("/goals", h.ListGoals)
		r.Post("/goals", h.CreateGoal)
		r.Delete("/goals/{id}", h.DeleteGoal)

		r.Get("/tasks/{goalID}", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Put("/tasks/{id}/toggle", h.ToggleTask)
		r.Delete("/tasks/{id}", h.DeleteTask)

		r.Get("/blog/posts", h.ListBlogPosts)
		r.Post("/blog/posts", h.CreateBlogPost)

		r.Get("/feed", h.Feed)
		r.Post("/feed/posts", h.CreateFeedPost)
		r.Post("/feed/posts/{id}/like", h.ToggleLike)
	})

	return r
}
