package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// newTestManager starts a miniredis instance and returns a Manager over it.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewManager(rdb, time.Hour)
}

// request runs a GET request through the manager's middleware and hands the
// attached session to fn. An optional token attaches an existing session
// cookie. Returns the response recorder for cookie inspection.
func request(t *testing.T, m *Manager, token string, fn func(c echo.Context, s *Session)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	rec := httptest.NewRecorder()

	handler := m.Middleware()(func(c echo.Context) error {
		fn(c, Get(c))
		return nil
	})
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec
}

// issuedToken extracts the session token set on a response.
func issuedToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == CookieName {
			return cookie.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func TestMiddleware_IssuesCookieForNewSession(t *testing.T) {
	m := newTestManager(t)

	rec := request(t, m, "", func(c echo.Context, s *Session) {
		if s == nil {
			t.Fatal("no session attached to context")
		}
		if s.SignedIn() {
			t.Error("fresh session should be anonymous")
		}
	})

	token := issuedToken(t, rec)
	if len(token) != tokenBytes*2 {
		t.Errorf("token length = %d, want %d hex chars", len(token), tokenBytes*2)
	}
}

func TestIdentity_PersistsAcrossRequests(t *testing.T) {
	m := newTestManager(t)

	var token string
	rec := request(t, m, "", func(c echo.Context, s *Session) {
		if err := s.SetIdentity(c.Request().Context(), "admin"); err != nil {
			t.Fatalf("set identity: %v", err)
		}
	})
	token = issuedToken(t, rec)

	request(t, m, token, func(c echo.Context, s *Session) {
		if s.Username() != "admin" {
			t.Errorf("username = %q, want %q", s.Username(), "admin")
		}
	})
}

func TestClearIdentity(t *testing.T) {
	m := newTestManager(t)

	var token string
	rec := request(t, m, "", func(c echo.Context, s *Session) {
		if err := s.SetIdentity(c.Request().Context(), "admin"); err != nil {
			t.Fatalf("set identity: %v", err)
		}
	})
	token = issuedToken(t, rec)

	request(t, m, token, func(c echo.Context, s *Session) {
		if err := s.ClearIdentity(c.Request().Context()); err != nil {
			t.Fatalf("clear identity: %v", err)
		}
	})

	request(t, m, token, func(c echo.Context, s *Session) {
		if s.SignedIn() {
			t.Error("identity survived ClearIdentity")
		}
	})
}

func TestFlash_SingleShot(t *testing.T) {
	m := newTestManager(t)

	var token string
	rec := request(t, m, "", func(c echo.Context, s *Session) {
		if err := s.SetFlash(c.Request().Context(), "Welcome!"); err != nil {
			t.Fatalf("set flash: %v", err)
		}
	})
	token = issuedToken(t, rec)

	// First pop returns the message.
	request(t, m, token, func(c echo.Context, s *Session) {
		flash, err := s.PopFlash(c.Request().Context())
		if err != nil {
			t.Fatalf("pop flash: %v", err)
		}
		if flash != "Welcome!" {
			t.Errorf("flash = %q, want %q", flash, "Welcome!")
		}
	})

	// Second request sees nothing: the flash is consumed.
	request(t, m, token, func(c echo.Context, s *Session) {
		flash, err := s.PopFlash(c.Request().Context())
		if err != nil {
			t.Fatalf("pop flash: %v", err)
		}
		if flash != "" {
			t.Errorf("flash = %q, want empty after consumption", flash)
		}
	})
}

func TestFlash_SurvivesPopOfNothing(t *testing.T) {
	m := newTestManager(t)

	request(t, m, "", func(c echo.Context, s *Session) {
		flash, err := s.PopFlash(c.Request().Context())
		if err != nil {
			t.Fatalf("pop flash: %v", err)
		}
		if flash != "" {
			t.Errorf("flash = %q, want empty", flash)
		}
	})
}

func TestIdentity_SurvivesFlashPop(t *testing.T) {
	m := newTestManager(t)

	var token string
	rec := request(t, m, "", func(c echo.Context, s *Session) {
		ctx := c.Request().Context()
		if err := s.SetIdentity(ctx, "admin"); err != nil {
			t.Fatalf("set identity: %v", err)
		}
		if err := s.SetFlash(ctx, "Welcome!"); err != nil {
			t.Fatalf("set flash: %v", err)
		}
	})
	token = issuedToken(t, rec)

	request(t, m, token, func(c echo.Context, s *Session) {
		if _, err := s.PopFlash(c.Request().Context()); err != nil {
			t.Fatalf("pop flash: %v", err)
		}
	})

	request(t, m, token, func(c echo.Context, s *Session) {
		if s.Username() != "admin" {
			t.Errorf("username = %q, want %q after flash pop", s.Username(), "admin")
		}
	})
}

func TestUnknownToken_GetsEmptyState(t *testing.T) {
	m := newTestManager(t)

	request(t, m, "deadbeef", func(c echo.Context, s *Session) {
		if s.SignedIn() {
			t.Error("unknown token should start anonymous")
		}
	})
}
