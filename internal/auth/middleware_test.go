package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// callProtected runs RequireAuth with the given Authorization header and
// reports the resulting status plus the user ID the handler saw.
func callProtected(t *testing.T, authHeader string) (int, uuid.UUID) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen uuid.UUID
	handler := RequireAuth(func(c echo.Context) error {
		id, err := UserID(c)
		if err != nil {
			t.Fatalf("UserID inside protected handler: %v", err)
		}
		seen = id
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err == nil {
		return rec.Code, seen
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("unexpected error type: %v", err)
	}
	return he.Code, seen
}

func TestRequireAuth_AcceptsIssuedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")

	userID := uuid.New()
	token, err := generateToken(userID)
	if err != nil {
		t.Fatalf("generateToken: %v", err)
	}

	code, seen := callProtected(t, "Bearer "+token)
	if code != http.StatusOK {
		t.Fatalf("valid token rejected with status %d", code)
	}
	if seen != userID {
		t.Fatalf("handler saw user %s, want %s", seen, userID)
	}
}

func TestRequireAuth_RejectsMissingOrMalformedCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")

	for _, header := range []string{
		"",
		"Bearer ",
		"Token abcdef",
		"Bearer not.a.token",
	} {
		code, _ := callProtected(t, header)
		if code != http.StatusUnauthorized {
			t.Errorf("header %q: got status %d, want 401", header, code)
		}
	}
}

func TestUserID_WithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, err := UserID(c); err == nil {
		t.Fatal("expected an error when no user is on the context")
	}
}
