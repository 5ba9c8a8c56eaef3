package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/docs"
)

// RegisterRoutes wires the auth and document features and registers their
// routes. This is the single place where routes are aggregated. Returns an
// error only when the document store cannot be initialized.
func (a *App) RegisterRoutes() error {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth: sign-in, sign-out.
	authService := auth.NewService(auth.NewFileSource(a.Config.UsersFile))
	auth.RegisterRoutes(e, auth.NewHandler(authService))

	// Documents: list, view, create, edit, delete.
	store, err := docs.NewDirStore(a.Config.DataPath)
	if err != nil {
		return err
	}
	docs.RegisterRoutes(e, docs.NewHandler(docs.NewService(store)))

	return nil
}
