package docs

import (
	"github.com/labstack/echo/v4"

	"github.com/inkwell-cms/inkwell/internal/auth"
)

// RegisterRoutes sets up the document routes. List and view are public;
// everything that mutates (or exposes a mutation form) sits behind the
// signed-in gate, which runs before the handler so no privileged side
// effect can happen for an anonymous request.
//
// Static paths (/create, /users/...) are registered alongside the
// /:filename parameter routes; Echo matches exact paths first.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	gate := auth.RequireSignIn()

	e.GET("/", h.Index)
	e.GET("/create", h.CreateForm, gate)
	e.POST("/create", h.Create, gate)
	e.GET("/:filename", h.Show)
	e.GET("/:filename/edit", h.EditForm, gate)
	e.POST("/:filename", h.Update, gate)
	e.POST("/:filename/delete", h.Delete, gate)
}
