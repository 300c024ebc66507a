package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authorize func(*http.Request)) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorize != nil {
		authorize(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error {
		actor, ok := ActorFromContext(c.Request().Context())
		if ok {
			return c.String(http.StatusOK, string(actor.Role))
		}
		return c.String(http.StatusOK, "anonymous")
	})
	return rec, h(c)
}

func TestMiddleware_ValidToken(t *testing.T) {
	actor := Actor{Role: RoleDoctor, ID: uuid.New()}
	token, err := SignToken(actor, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec, err := doRequest(t, Middleware(testSecret), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "doctor" {
		t.Errorf("actor role = %q, want doctor", rec.Body.String())
	}
}

func TestMiddleware_NoToken_PassesThrough(t *testing.T) {
	rec, err := doRequest(t, Middleware(testSecret), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Body.String() != "anonymous" {
		t.Errorf("got %q, want anonymous", rec.Body.String())
	}
}

func TestMiddleware_BadToken(t *testing.T) {
	_, err := doRequest(t, Middleware(testSecret), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-token")
	})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("got %v, want 401", err)
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	token, _ := SignToken(Actor{Role: RolePatient, ID: uuid.New()}, []byte("other"), time.Hour)
	_, err := doRequest(t, Middleware(testSecret), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("got %v, want 401", err)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	token, _ := SignToken(Actor{Role: RolePatient, ID: uuid.New()}, testSecret, -time.Minute)
	_, err := doRequest(t, Middleware(testSecret), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("got %v, want 401", err)
	}
}

func TestRequireRole(t *testing.T) {
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e := echo.New()

	run := func(actor *Actor, roles ...Role) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if actor != nil {
			req = req.WithContext(WithActor(req.Context(), *actor))
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return RequireRole(roles...)(handler)(c)
	}

	if err := run(&Actor{Role: RoleAdmin, ID: uuid.New()}, RoleAdmin, RoleDoctor); err != nil {
		t.Errorf("admin should pass: %v", err)
	}
	if err := run(&Actor{Role: RolePatient, ID: uuid.New()}, RoleDoctor); err == nil {
		t.Error("patient should be forbidden on doctor-only route")
	} else if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Errorf("got %v, want 403", err)
	}
	if err := run(nil, RoleDoctor); err == nil {
		t.Error("anonymous should be unauthorized")
	} else if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("got %v, want 401", err)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleDoctor, RolePatient} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("nurse").Valid() {
		t.Error("unknown role should be invalid")
	}
}
