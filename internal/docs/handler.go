package docs

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-cms/inkwell/internal/apperror"
	"github.com/inkwell-cms/inkwell/internal/session"
	"github.com/inkwell-cms/inkwell/internal/views"
)

// Handler handles document HTTP requests. Handlers are thin: read the
// request, call the service, set the flash, render or redirect.
type Handler struct {
	service *Service
}

// NewHandler creates a document handler with the given service.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Index renders the document list (GET /).
func (h *Handler) Index(c echo.Context) error {
	files, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return views.RenderPage(c, http.StatusOK, "index", views.Page{Files: files})
}

// Show serves a single document (GET /:filename). Plain text streams raw;
// markdown renders into the page layout. A missing or unrenderable document
// redirects to the list with a flash.
func (h *Handler) Show(c echo.Context) error {
	name := c.Param("filename")

	rendered, err := h.service.View(c.Request().Context(), name)
	if apperror.IsNotFound(err) || errors.Is(err, ErrUnsupportedType) {
		setFlash(c, fmt.Sprintf("%s does not exist.", name))
		return c.Redirect(http.StatusFound, "/")
	}
	if err != nil {
		return err
	}

	if rendered.Kind == KindPlainText {
		return c.Blob(http.StatusOK, "text/plain; charset=utf-8", rendered.Content)
	}
	return views.RenderPage(c, http.StatusOK, "document", views.Page{
		Title:    name,
		Filename: name,
		HTML:     template.HTML(rendered.Content),
	})
}

// CreateForm renders the new-document page (GET /create, signed-in only).
func (h *Handler) CreateForm(c echo.Context) error {
	return views.RenderPage(c, http.StatusOK, "create", views.Page{Title: "New Document"})
}

// Create processes the new-document form (POST /create, signed-in only).
// Naming policy violations re-render the form with 422 and the policy
// message; success creates the document and redirects with a flash.
func (h *Handler) Create(c echo.Context) error {
	submitted := c.FormValue("filename")
	content := c.FormValue("content")

	name, err := h.service.Create(c.Request().Context(), submitted, content)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnprocessableEntity {
			return views.RenderPage(c, http.StatusUnprocessableEntity, "create", views.Page{
				Title:    "New Document",
				Flash:    appErr.Message,
				Filename: name,
			})
		}
		return err
	}

	setFlash(c, fmt.Sprintf("%s has been created.", name))
	return c.Redirect(http.StatusFound, "/")
}

// EditForm renders the edit page pre-filled with current content
// (GET /:filename/edit, signed-in only). A missing document propagates as
// not found.
func (h *Handler) EditForm(c echo.Context) error {
	name := c.Param("filename")

	content, err := h.service.Content(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return views.RenderPage(c, http.StatusOK, "edit", views.Page{
		Title:    "Edit " + name,
		Filename: name,
		Content:  content,
	})
}

// Update overwrites a document with the submitted content
// (POST /:filename, signed-in only).
func (h *Handler) Update(c echo.Context) error {
	name := c.Param("filename")

	if err := h.service.Update(c.Request().Context(), name, c.FormValue("content")); err != nil {
		return err
	}

	setFlash(c, fmt.Sprintf("%s has been updated.", name))
	return c.Redirect(http.StatusFound, "/")
}

// Delete removes a document (POST /:filename/delete, signed-in only).
// Deleting an already-gone document is treated as success: the UI never
// offers it, but a stale tab must not produce an error page.
func (h *Handler) Delete(c echo.Context) error {
	name := c.Param("filename")

	if err := h.service.Delete(c.Request().Context(), name); err != nil && !apperror.IsNotFound(err) {
		return err
	}

	setFlash(c, fmt.Sprintf("%s has been deleted.", name))
	return c.Redirect(http.StatusFound, "/")
}

// setFlash stores a flash on the request's session. A failed write costs a
// message, not the operation, so it is logged and swallowed.
func setFlash(c echo.Context, message string) {
	sess := session.Get(c)
	if sess == nil {
		return
	}
	if err := sess.SetFlash(c.Request().Context(), message); err != nil {
		slog.Warn("setting flash", slog.Any("error", err))
	}
}
