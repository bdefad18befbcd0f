package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/yeargoals/internal/planner"
	"github.com/starford/yeargoals/internal/social"
)

// ListGoals handles GET /api/goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Planner.ListGoals(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "list goals", err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// CreateGoal handles POST /api/goals.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req planner.GoalInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "create goal", err)
		return
	}
	g, err := h.Planner.CreateGoal(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeError(w, "create goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// DeleteGoal handles DELETE /api/goals/{id}.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Planner.DeleteGoal(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete goal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTasks handles GET /api/tasks/{goalID}.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Planner.ListTasks(r.Context(), UserID(r.Context()), chi.URLParam(r, "goalID"))
	if err != nil {
		writeError(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /api/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req planner.TaskInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "create task", err)
		return
	}
	t, err := h.Planner.CreateTask(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeError(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ToggleTask handles PUT /api/tasks/{id}/toggle.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Planner.ToggleTask(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "toggle task", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Planner.DeleteTask(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBlogPosts handles GET /api/blog/posts.
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Social.ListBlogPosts(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "list blog posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreateBlogPost handles POST /api/blog/posts.
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req social.BlogInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "create blog post", err)
		return
	}
	p, err := h.Social.CreateBlogPost(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeError(w, "create blog post", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Feed handles GET /api/feed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.Social.Feed(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, "feed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateFeedPost handles POST /api/feed/posts.
func (h *Handler) CreateFeedPost(w http.ResponseWriter, r *http.Request) {
	var req social.FeedInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "create feed post", err)
		return
	}
	p, err := h.Social.CreateFeedPost(r.Context(), UserID(r.Context()), req)
	if err != nil {
		writeError(w, "create feed post", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ToggleLike handles POST /api/feed/posts/{id}/like.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	res, err := h.Social.ToggleLike(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "toggle like", err)
		return
	}
	writeJSON(w, http.StatusOK, LikeResponse(res))
}
