// Package session implements Inkwell's session store: an opaque token in an
// HttpOnly cookie, with per-session state (identity and a pending flash
// message) JSON-encoded in Redis under a TTL.
//
// State is deliberately tiny: at most one identity attribute (the signed-in
// username) and at most one flash message. The flash is single-shot -- set
// during one response, shown on exactly the next rendered page, then gone.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-cms/inkwell/internal/apperror"
)

// CookieName is the HTTP cookie that carries the session token.
const CookieName = "inkwell_session"

// keyPrefix is the Redis key prefix for session state.
const keyPrefix = "session:"

// tokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const tokenBytes = 32

// contextKey is the Echo context key the middleware stores the session under.
const contextKey = "inkwell_session"

// State is the persisted session payload.
type State struct {
	// Username is the signed-in identity; empty when anonymous.
	Username string `json:"username,omitempty"`

	// Flash is the pending single-shot message; empty when none.
	Flash string `json:"flash,omitempty"`
}

// Manager loads and persists session state in Redis.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewManager creates a session manager with the given Redis client and
// session TTL. Each write refreshes the TTL, so sessions expire after the
// configured idle period.
func NewManager(rdb *redis.Client, ttl time.Duration) *Manager {
	return &Manager{redis: rdb, ttl: ttl}
}

// Middleware returns Echo middleware that attaches a Session to every
// request. An existing token cookie is looked up in Redis; a missing or
// unknown token gets a fresh token and empty state. Nothing is written to
// Redis until the session is actually mutated, so anonymous browsing does
// not accumulate keys.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := m.load(c)
			if err != nil {
				return apperror.NewInternal(err)
			}
			c.Set(contextKey, sess)
			return next(c)
		}
	}
}

// Get retrieves the request's session. Returns nil if the middleware is not
// installed, which is a wiring bug rather than a runtime condition.
func Get(c echo.Context) *Session {
	sess, ok := c.Get(contextKey).(*Session)
	if !ok {
		return nil
	}
	return sess
}

// load resolves the request's session from its cookie, creating a new token
// (and setting the cookie) when none is presented.
func (m *Manager) load(c echo.Context) (*Session, error) {
	if token := readCookie(c); token != "" {
		state, err := m.fetch(c.Request().Context(), token)
		if err != nil {
			return nil, err
		}
		return &Session{mgr: m, token: token, state: state}, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}
	writeCookie(c, token)
	return &Session{mgr: m, token: token}, nil
}

// fetch reads session state from Redis. An expired or unknown token yields
// empty state, not an error.
func (m *Manager) fetch(ctx context.Context, token string) (State, error) {
	data, err := m.redis.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading session from Redis: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("unmarshaling session: %w", err)
	}
	return state, nil
}

// save persists session state to Redis, refreshing the TTL.
func (m *Manager) save(ctx context.Context, token string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := m.redis.Set(ctx, keyPrefix+token, data, m.ttl).Err(); err != nil {
		return fmt.Errorf("storing session in Redis: %w", err)
	}
	return nil
}

// Session is one request's handle on its session state. Mutations persist
// immediately; reads use the state snapshot taken at load time.
type Session struct {
	mgr   *Manager
	token string
	state State
}

// Username returns the signed-in username, or empty when anonymous.
func (s *Session) Username() string {
	return s.state.Username
}

// SignedIn reports whether the session carries an identity.
func (s *Session) SignedIn() bool {
	return s.state.Username != ""
}

// SetIdentity records a successful sign-in.
func (s *Session) SetIdentity(ctx context.Context, username string) error {
	s.state.Username = username
	return s.mgr.save(ctx, s.token, s.state)
}

// ClearIdentity removes the signed-in identity, keeping any pending flash.
func (s *Session) ClearIdentity(ctx context.Context) error {
	s.state.Username = ""
	return s.mgr.save(ctx, s.token, s.state)
}

// SetFlash stores a message to show on the next rendered page. A second
// SetFlash before the first is displayed replaces it.
func (s *Session) SetFlash(ctx context.Context, message string) error {
	s.state.Flash = message
	return s.mgr.save(ctx, s.token, s.state)
}

// PopFlash returns the pending flash message and clears it, so it appears
// on exactly one page. Returns empty when no message is pending.
func (s *Session) PopFlash(ctx context.Context) (string, error) {
	if s.state.Flash == "" {
		return "", nil
	}
	message := s.state.Flash
	s.state.Flash = ""
	if err := s.mgr.save(ctx, s.token, s.state); err != nil {
		return "", err
	}
	return message, nil
}

// --- Cookie helpers ---

// readCookie returns the session token from the request cookie, or empty.
func readCookie(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// writeCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure behind TLS, and SameSite=Lax.
func writeCookie(c echo.Context, token string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// generateToken creates a cryptographically random hex-encoded token.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
