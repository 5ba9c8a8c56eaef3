package docs

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/inkwell-cms/inkwell/internal/apperror"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemStore())
}

// assertValidation checks that err is a 422 AppError with the expected message.
func assertValidation(t *testing.T, err error, wantMessage string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error %q, got nil", wantMessage)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != http.StatusUnprocessableEntity {
		t.Errorf("code = %d, want 422", appErr.Code)
	}
	if appErr.Message != wantMessage {
		t.Errorf("message = %q, want %q", appErr.Message, wantMessage)
	}
}

func TestCreate_Success(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	name, err := svc.Create(ctx, "test_file.txt", "new content")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if name != "test_file.txt" {
		t.Errorf("name = %q, want %q", name, "test_file.txt")
	}

	content, err := svc.Content(ctx, "test_file.txt")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if content != "new content" {
		t.Errorf("stored content = %q, want %q", content, "new content")
	}
}

func TestCreate_TrimsWhitespace(t *testing.T) {
	svc := newTestService(t)

	name, err := svc.Create(context.Background(), "  notes.md  ", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if name != "notes.md" {
		t.Errorf("name = %q, want %q", name, "notes.md")
	}
}

func TestCreate_EmptyBase(t *testing.T) {
	svc := newTestService(t)

	// ".txt" has an empty base; so does the fully empty string.
	for _, submitted := range []string{".txt", "", "   "} {
		_, err := svc.Create(context.Background(), submitted, "")
		assertValidation(t, err, MsgNameRequired)
	}
}

func TestCreate_InvalidExtension(t *testing.T) {
	svc := newTestService(t)

	for _, submitted := range []string{"plain", "doc.pdf", "a.b.txt", "name."} {
		_, err := svc.Create(context.Background(), submitted, "")
		assertValidation(t, err, MsgExtensionInvalid)
	}
}

func TestCreate_RejectedNameStoresNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _ = svc.Create(ctx, ".txt", "content")

	names, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("list = %v, want empty after rejected create", names)
	}
}

func TestUpdate_Idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Update(ctx, "changes.txt", "final content"); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	content, err := svc.Content(ctx, "changes.txt")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if content != "final content" {
		t.Errorf("content = %q, want %q", content, "final content")
	}
}

func TestUpdate_LastWriteWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Update(ctx, "changes.txt", "first"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Update(ctx, "changes.txt", "second"); err != nil {
		t.Fatalf("update: %v", err)
	}

	content, err := svc.Content(ctx, "changes.txt")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if content != "second" {
		t.Errorf("content = %q, want %q", content, "second")
	}
}

func TestView_Missing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.View(context.Background(), "nope.txt")
	if !apperror.IsNotFound(err) {
		t.Errorf("got %v, want not-found", err)
	}
}

func TestView_UnsupportedType(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Update(ctx, "data.csv", "a,b"); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := svc.View(ctx, "data.csv")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("got %v, want ErrUnsupportedType", err)
	}
}
