package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/essentialtimes/newsroom/internal/core/domain"
)

type stubVerifier struct {
	identity domain.Identity
	err      error
	got      string
}

func (v *stubVerifier) Verify(token string) (domain.Identity, error) {
	v.got = token
	return v.identity, v.err
}

func runAuth(t *testing.T, verifier TokenVerifier, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Auth(verifier)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	verifier := &stubVerifier{identity: domain.Identity{ID: 7, Email: "a@example.com", Role: domain.RoleReporter, Name: "A"}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Auth(verifier)(func(c echo.Context) error {
		called = true
		identity, ok := IdentityFrom(c)
		if !ok || identity.ID != 7 || identity.Role != domain.RoleReporter {
			t.Fatalf("identity not set: %+v", identity)
		}
		if c.Get("role") != domain.RoleReporter {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if verifier.got != "abc.def.ghi" {
		t.Errorf("unexpected token passed to verifier: %q", verifier.got)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer"} {
		rec, called := runAuth(t, &stubVerifier{}, header)
		if called {
			t.Fatalf("%q: should not reach next", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "access token required") {
			t.Errorf("%q: unexpected body %s", header, rec.Body.String())
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, called := runAuth(t, &stubVerifier{err: errors.New("token is expired")}, "Bearer expired")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid token") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestIdentityFrom_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, ok := IdentityFrom(c); ok {
		t.Fatal("expected no identity")
	}
}
