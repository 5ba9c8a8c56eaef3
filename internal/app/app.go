// Package app is the application bootstrap and dependency injection root.
// It creates and holds shared infrastructure (Redis client, Echo instance,
// session manager) and wires together the auth and document features.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-cms/inkwell/internal/apperror"
	"github.com/inkwell-cms/inkwell/internal/config"
	"github.com/inkwell-cms/inkwell/internal/middleware"
	"github.com/inkwell-cms/inkwell/internal/session"
	"github.com/inkwell-cms/inkwell/internal/views"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Redis is the Redis client backing the session store.
	Redis *redis.Client

	// Sessions is the session manager attached to every request.
	Sessions *session.Manager

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware, the page renderer, and error
// handling.
func New(cfg *config.Config, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	e.Renderer = views.NewRenderer()

	app := &App{
		Config:   cfg,
		Redis:    rdb,
		Sessions: session.NewManager(rdb, cfg.Session.TTL),
		Echo:     e,
	}

	// Register global middleware in order of execution: recovery outermost,
	// then request logging, security headers, and the session loader every
	// handler depends on.
	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.SecurityHeaders())
	e.Use(app.Sessions.Middleware())

	// Register the custom error handler that maps AppErrors to HTTP responses.
	e.HTTPErrorHandler = app.errorHandler

	// Serve static assets (stylesheet).
	e.Static("/static", "static")

	return app
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) to error pages with the right status, logs internal causes,
// and never leaks them to the client.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message

		// Log internal errors with the underlying cause.
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	} else {
		// Check for Echo's built-in HTTP errors (e.g., 404 from router).
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			code = echoErr.Code
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
		} else {
			// Truly unexpected error -- log it.
			slog.Error("unhandled error",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
		}
	}

	renderErr := views.RenderPage(c, code, "error", views.Page{
		Title:   fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Content: message,
	})
	if renderErr != nil {
		slog.Error("rendering error page", slog.Any("error", renderErr))
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting Inkwell server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
