package auth

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-cms/inkwell/internal/apperror"
	"github.com/inkwell-cms/inkwell/internal/session"
	"github.com/inkwell-cms/inkwell/internal/views"
)

// Flash messages for the sign-in workflow. Exact wording is part of the
// user-facing contract and covered by tests.
const (
	FlashWelcome            = "Welcome!"
	FlashInvalidCredentials = "Invalid Credentials"
	FlashSignedOut          = "You have been signed out."
)

// Handler handles sign-in and sign-out requests. Handlers are thin: bind
// the form, call the service, set session state, render or redirect.
type Handler struct {
	service *Service
}

// NewHandler creates an auth handler with the given service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignInForm renders the sign-in page (GET /users/signin).
func (h *Handler) SignInForm(c echo.Context) error {
	return views.RenderPage(c, http.StatusOK, "signin", views.Page{Title: "Sign In"})
}

// SignIn processes the sign-in form (POST /users/signin). A valid pair sets
// the session identity and redirects to the document list; an invalid pair
// re-renders the form with 422 and the same message regardless of whether
// the username exists.
func (h *Handler) SignIn(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	ctx := c.Request().Context()

	ok, err := h.service.Verify(ctx, username, password)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if !ok {
		return views.RenderPage(c, http.StatusUnprocessableEntity, "signin", views.Page{
			Title: "Sign In",
			Flash: FlashInvalidCredentials,
		})
	}

	sess := session.Get(c)
	if err := sess.SetIdentity(ctx, username); err != nil {
		return apperror.NewInternal(err)
	}
	if err := sess.SetFlash(ctx, FlashWelcome); err != nil {
		return apperror.NewInternal(err)
	}

	slog.Info("user signed in", slog.String("username", username))
	return c.Redirect(http.StatusFound, "/")
}

// SignOut clears the session identity (POST /users/signout).
func (h *Handler) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	sess := session.Get(c)
	username := sess.Username()

	if err := sess.ClearIdentity(ctx); err != nil {
		return apperror.NewInternal(err)
	}
	if err := sess.SetFlash(ctx, FlashSignedOut); err != nil {
		return apperror.NewInternal(err)
	}

	if username != "" {
		slog.Info("user signed out", slog.String("username", username))
	}
	return c.Redirect(http.StatusFound, "/")
}
