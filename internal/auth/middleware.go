package auth

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-cms/inkwell/internal/session"
)

// FlashSignInRequired is shown when an anonymous visitor attempts a
// privileged operation.
const FlashSignInRequired = "You must be signed in to do that"

// RequireSignIn returns middleware guarding privileged routes. Anonymous
// requests are redirected to the document list with a flash message before
// the handler -- and therefore any store mutation -- can run.
func RequireSignIn() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.Get(c)
			if sess == nil || !sess.SignedIn() {
				if sess != nil {
					if err := sess.SetFlash(c.Request().Context(), FlashSignInRequired); err != nil {
						slog.Warn("setting flash", slog.Any("error", err))
					}
				}
				return c.Redirect(http.StatusFound, "/")
			}
			return next(c)
		}
	}
}
