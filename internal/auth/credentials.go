package auth

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CredentialSource supplies the username -> bcrypt-hash mapping used to
// verify sign-ins. Implementations load fresh on every call: user management
// happens outside Inkwell, and edits to the backing store must take effect
// on the next request without a restart.
type CredentialSource interface {
	Load(ctx context.Context) (map[string]string, error)
}

// FileSource reads credentials from a YAML file of the form:
//
//	admin: $2a$10$...
//	editor: $2a$10$...
type FileSource struct {
	path string
}

// NewFileSource creates a credential source backed by the given YAML file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and parses the credential file. The file is re-read on every
// call -- no caching.
func (f *FileSource) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	creds := make(map[string]string)
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	return creds, nil
}
