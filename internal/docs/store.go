package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/inkwell-cms/inkwell/internal/apperror"
)

// Store is the document storage contract: named byte blobs in a flat
// namespace. Implementations back it with a directory on disk or an
// in-memory map; the workflow does not care which.
//
// No locking is provided: two writers racing on the same name resolve to
// last-write-wins, inherited from the storage underneath.
type Store interface {
	// List enumerates all document names. Order is stable within one call
	// but otherwise unspecified.
	List(ctx context.Context) ([]string, error)

	// Read returns a document's content, or a not-found error.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write creates or fully overwrites a document.
	Write(ctx context.Context, name string, content []byte) error

	// Create writes a new document. Name validation happens in the
	// workflow before this is called; at the store level Create and Write
	// are the same operation.
	Create(ctx context.Context, name string, content []byte) error

	// Delete removes a document, or returns a not-found error.
	Delete(ctx context.Context, name string) error
}

// errDocumentNotFound builds the store-level not-found error.
func errDocumentNotFound(name string) error {
	return apperror.NewNotFound("document not found: " + name)
}

// validName rejects names that would escape the flat namespace. Documents
// are addressed by bare filenames only.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, "/\\") && name == filepath.Base(name)
}

// --- Filesystem store ---

// DirStore stores each document as a file in a single directory.
type DirStore struct {
	root string
}

// NewDirStore creates a directory-backed store, creating the directory if
// it does not exist.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}
	return &DirStore{root: root}, nil
}

// List returns the names of all regular files in the directory, in the
// order the filesystem reports them.
func (s *DirStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing documents: %w", err))
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Read returns a document's bytes.
func (s *DirStore) Read(ctx context.Context, name string) ([]byte, error) {
	if !validName(name) {
		return nil, errDocumentNotFound(name)
	}
	content, err := os.ReadFile(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return nil, errDocumentNotFound(name)
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading document %q: %w", name, err))
	}
	return content, nil
}

// Write creates or overwrites a document file.
func (s *DirStore) Write(ctx context.Context, name string, content []byte) error {
	if !validName(name) {
		return apperror.NewBadRequest("invalid document name")
	}
	if err := os.WriteFile(filepath.Join(s.root, name), content, 0o644); err != nil {
		return apperror.NewInternal(fmt.Errorf("writing document %q: %w", name, err))
	}
	return nil
}

// Create writes a new document. See Store.
func (s *DirStore) Create(ctx context.Context, name string, content []byte) error {
	return s.Write(ctx, name, content)
}

// Delete removes a document file.
func (s *DirStore) Delete(ctx context.Context, name string) error {
	if !validName(name) {
		return errDocumentNotFound(name)
	}
	err := os.Remove(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return errDocumentNotFound(name)
	}
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting document %q: %w", name, err))
	}
	return nil
}

// --- In-memory store ---

// MemStore keeps documents in a map. Used by tests and useful for embedding
// Inkwell without touching disk. The mutex protects the map itself; the
// contract's last-write-wins semantics are unchanged.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string][]byte)}
}

// List returns all document names, sorted so the order is stable.
func (s *MemStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Read returns a document's bytes.
func (s *MemStore) Read(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.docs[name]
	if !ok {
		return nil, errDocumentNotFound(name)
	}
	// Copy so callers cannot mutate stored content.
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// Write creates or overwrites a document.
func (s *MemStore) Write(ctx context.Context, name string, content []byte) error {
	if !validName(name) {
		return apperror.NewBadRequest("invalid document name")
	}
	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = stored
	return nil
}

// Create writes a new document. See Store.
func (s *MemStore) Create(ctx context.Context, name string, content []byte) error {
	return s.Write(ctx, name, content)
}

// Delete removes a document.
func (s *MemStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[name]; !ok {
		return errDocumentNotFound(name)
	}
	delete(s.docs, name)
	return nil
}
