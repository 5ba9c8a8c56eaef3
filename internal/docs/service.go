package docs

import (
	"context"
	"strings"

	"github.com/inkwell-cms/inkwell/internal/apperror"
)

// Validation messages for the create-time naming policy. Exact wording is
// part of the user-facing contract and covered by tests.
const (
	MsgNameRequired     = "A file name is needed."
	MsgExtensionInvalid = "The extension is invalid."
)

// Service orchestrates the document workflow over an injected Store. It
// owns no state of its own.
type Service struct {
	store Store
}

// NewService creates a document service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all document names.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// View loads a document and renders it for display. A missing document
// returns a not-found error; an unrenderable extension returns
// ErrUnsupportedType. Callers surface both identically.
func (s *Service) View(ctx context.Context, name string) (Rendered, error) {
	content, err := s.store.Read(ctx, name)
	if err != nil {
		return Rendered{}, err
	}
	return Render(name, content)
}

// Content returns a document's raw content for the edit form.
func (s *Service) Content(ctx context.Context, name string) (string, error) {
	content, err := s.store.Read(ctx, name)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Update fully overwrites a document's content. Repeating the same update
// is idempotent: the stored bytes equal the last submitted content.
func (s *Service) Update(ctx context.Context, name, content string) error {
	return s.store.Write(ctx, name, []byte(content))
}

// Create validates a proposed document name against the naming policy and
// creates the document with the submitted content. The returned name is the
// trimmed form actually stored. Policy violations come back as 422
// validation errors carrying the user-facing message.
func (s *Service) Create(ctx context.Context, name, content string) (string, error) {
	name = strings.TrimSpace(name)

	if err := validateName(name); err != nil {
		return name, err
	}
	if err := s.store.Create(ctx, name, []byte(content)); err != nil {
		return name, err
	}
	return name, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// validateName applies the create-time naming policy: the name splits on
// its first dot into base and extension; the base must be non-empty and the
// extension must name a renderable type (txt or md).
func validateName(name string) error {
	base, ext, found := strings.Cut(name, ".")
	if base == "" {
		return apperror.NewValidation(MsgNameRequired)
	}
	if !found || (ext != "txt" && ext != "md") {
		return apperror.NewValidation(MsgExtensionInvalid)
	}
	// Path-escaping names (slashes, "..") never come from the form; the
	// store's own name guard rejects them as a bad request.
	return nil
}
