// Package auth handles credential verification and the signed-in gate for
// Inkwell. Identities are simple usernames checked against a static
// credential store; sessions live in Redis (see the session package).
package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Service verifies submitted credentials against the credential source.
type Service struct {
	creds CredentialSource
}

// NewService creates an auth service backed by the given credential source.
func NewService(creds CredentialSource) *Service {
	return &Service{creds: creds}
}

// Verify checks a username/password pair. An unknown username and a wrong
// password are indistinguishable -- both return false, never an error -- so
// responses cannot leak which usernames exist. The error return is reserved
// for credential store failures.
func (s *Service) Verify(ctx context.Context, username, password string) (bool, error) {
	creds, err := s.creds.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading credentials: %w", err)
	}

	hash, ok := creds[username]
	if !ok {
		return false, nil
	}

	// bcrypt comparison is the only place a password meets a stored hash.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
