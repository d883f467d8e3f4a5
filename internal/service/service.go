// Package service exposes the runner over HTTP.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/petasbytes/memagent/internal/runner"
	"github.com/petasbytes/memagent/memory"
)

// Chatter is the part of *runner.Runner the HTTP surface needs.
type Chatter interface {
	Chat(ctx context.Context, message string) (*runner.Turn, error)
	Memory() *memory.Document
	Reset(ctx context.Context) (*memory.Document, error)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response    string           `json:"response"`
	MemoryState *memory.Document `json:"memory_state"`
	Error       string           `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Server serves chat, memory and reset routes.
type Server struct {
	app    *fiber.App
	chat   Chatter
	logger *log.Logger
}

func New(chat Chatter, logger *log.Logger) *Server {
	srv := &Server{
		app: fiber.New(fiber.Config{
			AppName:      "memagent",
			ServerHeader: "memagent",
		}),
		chat:   chat,
		logger: logger,
	}
	srv.app.Use(recover.New(), srv.logRequests)
	srv.app.Get("/", srv.handleRoot)
	srv.app.Post("/chat", srv.handleChat)
	srv.app.Get("/memory", srv.handleMemory)
	srv.app.Post("/reset", srv.handleReset)
	srv.app.Delete("/memory", srv.handleReset)
	return srv
}

// App exposes the fiber app, mainly for app.Test.
func (srv *Server) App() *fiber.App { return srv.app }

func (srv *Server) Listen(addr string) error {
	return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.app.ShutdownWithContext(ctx)
}

func (srv *Server) logRequests(ctx fiber.Ctx) error {
	start := time.Now()
	err := ctx.Next()
	srv.logger.Info("request",
		"method", ctx.Method(),
		"path", ctx.Path(),
		"status", ctx.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func (srv *Server) handleRoot(ctx fiber.Ctx) error {
	return ctx.SendString("OK")
}

func (srv *Server) handleChat(ctx fiber.Ctx) error {
	var req chatRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Invalid request body"})
	}

	turn, err := srv.chat.Chat(ctx.Context(), req.Message)
	switch {
	case errors.Is(err, runner.ErrEmptyMessage):
		return ctx.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "No message provided"})
	case runner.IsPersistError(err):
		srv.logger.Error("failed to persist memory", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(chatResponse{
			Response:    turn.Reply,
			MemoryState: turn.Snapshot,
			Error:       "Failed to save memory",
		})
	case err != nil:
		srv.logger.Error("chat failed", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(chatResponse{
		Response:    turn.Reply,
		MemoryState: turn.Snapshot,
	})
}

func (srv *Server) handleMemory(ctx fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(srv.chat.Memory())
}

func (srv *Server) handleReset(ctx fiber.Ctx) error {
	if _, err := srv.chat.Reset(ctx.Context()); err != nil {
		srv.logger.Error("failed to reset memory", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(statusResponse{Status: "Memory reset successfully"})
}
