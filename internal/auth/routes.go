package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-cms/inkwell/internal/middleware"
)

// RegisterRoutes sets up the sign-in and sign-out routes. All three are
// public; the RequireSignIn middleware is exported separately for the
// document routes to use.
//
// The sign-in POST is rate-limited per IP to slow down credential guessing.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/users/signin", h.SignInForm)
	e.POST("/users/signin", h.SignIn, middleware.RateLimit(10, time.Minute))
	e.POST("/users/signout", h.SignOut)
}
