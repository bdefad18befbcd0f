// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the yeargoals day tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/attendance"
	"github.com/starford/yeargoals/internal/calendar"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/goal"
	"github.com/starford/yeargoals/internal/reminder"
)

const rulesURI = "yeargoals://day-rules"

// Services are the domain services the tools call.
type Services struct {
	Attendance *attendance.Service
	Calendar   *calendar.Service
	Goals      *goal.Service
	Reminders  *reminder.Service
	Clock      clock.Clock
}

// Server wraps the MCP server with the yeargoals tools. Every tool acts as one user.
type Server struct {
	mcp    *server.MCPServer
	svcs   Services
	userID string
}

// New creates a new MCP server acting as userID with all tools registered.
func New(svcs Services, userID string) *Server {
	s := &Server{svcs: svcs, userID: userID}

	s.mcp = server.NewMCPServer(
		"yeargoals",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_attendance",
		mcp.WithDescription("Today's attendance: status, check-in/out, breaks and live working/break minutes."),
	), s.getAttendance)

	s.mcp.AddTool(mcp.NewTool("clock_in",
		mcp.WithDescription("Start today's working day. Idempotent while working or on a break."),
	), s.clockIn)

	s.mcp.AddTool(mcp.NewTool("clock_out",
		mcp.WithDescription("End today's working day. Closes an open break at the same instant."),
	), s.clockOut)

	s.mcp.AddTool(mcp.NewTool("start_break",
		mcp.WithDescription("Open a break. Only allowed while working."),
	), s.startBreak)

	s.mcp.AddTool(mcp.NewTool("end_break",
		mcp.WithDescription("Close the open break. Only allowed while on a break."),
	), s.endBreak)

	s.mcp.AddTool(mcp.NewTool("toggle_day",
		mcp.WithDescription("Mark a calendar day completed, or remove a completed day. "+
			"Read the yeargoals://day-rules resource for the editing policy."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default: today)")),
	), s.toggleDay)

	s.mcp.AddTool(mcp.NewTool("set_note",
		mcp.WithDescription("Write the note and optional day goal of a calendar day."),
		mcp.WithString("note", mcp.Required(), mcp.Description("Note text; empty clears it")),
		mcp.WithString("day_goal", mcp.Description("Goal for that specific day")),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default: today)")),
	), s.setNote)

	s.mcp.AddTool(mcp.NewTool("completion_stats",
		mcp.WithDescription("Completed vs recorded days for a year, with a rounded percentage."),
		mcp.WithNumber("year", mcp.Description("Year (default: current year)")),
	), s.completionStats)

	s.mcp.AddTool(mcp.NewTool("current_streak",
		mcp.WithDescription("Consecutive completed days ending today."),
	), s.currentStreak)

	s.mcp.AddTool(mcp.NewTool("get_goal",
		mcp.WithDescription("The user's current free-text goal."),
	), s.getGoal)

	s.mcp.AddTool(mcp.NewTool("set_goal",
		mcp.WithDescription("Replace the user's current goal."),
		mcp.WithString("goal", mcp.Required(), mcp.Description("Goal text")),
	), s.setGoal)

	s.mcp.AddTool(mcp.NewTool("reminder_link",
		mcp.WithDescription("WhatsApp deep link with today's goal reminder. Requires a phone number on the profile."),
	), s.reminderLink)

	s.mcp.AddResource(
		mcp.NewResource(rulesURI, "Day Rules",
			mcp.WithResourceDescription("How attendance, calendar and analytics tools behave."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRulesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getAttendance(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svcs.Attendance.Today(ctx, s.userID))
}

func (s *Server) clockIn(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svcs.Attendance.ClockIn(ctx, s.userID))
}

func (s *Server) clockOut(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svcs.Attendance.ClockOut(ctx, s.userID))
}

func (s *Server) startBreak(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svcs.Attendance.StartBreak(ctx, s.userID))
}

func (s *Server) endBreak(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svcs.Attendance.EndBreak(ctx, s.userID))
}

func (s *Server) toggleDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", clock.Today(s.svcs.Clock))
	d, err := s.svcs.Calendar.ToggleDay(ctx, s.userID, date)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"date": date, "completed": d != nil && d.Completed}, nil)
}

func (s *Server) setNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var dayGoal *string
	if g := req.GetString("day_goal", ""); g != "" {
		dayGoal = &g
	}
	date := req.GetString("date", clock.Today(s.svcs.Clock))
	return jsonResult(s.svcs.Calendar.SetNote(ctx, s.userID, date, &note, dayGoal))
}

func (s *Server) completionStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svcs.Calendar.Stats(ctx, s.userID, req.GetInt("year", 0)))
}

func (s *Server) currentStreak(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.svcs.Calendar.Streak(ctx, s.userID)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]int{"streak": n}, nil)
}

func (s *Server) getGoal(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svcs.Goals.Get(ctx, s.userID))
}

func (s *Server) setGoal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svcs.Goals.Set(ctx, s.userID, text))
}

func (s *Server) reminderLink(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := s.svcs.Reminders.Link(ctx, s.userID)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(link), nil
}

func (s *Server) readRulesResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "text/markdown",
			Text:     DayRules,
		},
	}, nil
}

// jsonResult renders v as indented JSON, or err as a tool error.
func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError(err), nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError exposes taxonomy errors verbatim and hides everything else.
func toolError(err error) *mcp.CallToolResult {
	for _, known := range []error{apperr.ErrValidation, apperr.ErrPreconditionFailed, apperr.ErrNotFound, apperr.ErrUnauthorized} {
		if errors.Is(err, known) {
			return mcp.NewToolResultError(apperr.Message(err))
		}
	}
	slog.Error("mcp tool failed", slog.String("error", err.Error()))
	return mcp.NewToolResultError("internal error")
}
