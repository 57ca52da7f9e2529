package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"job-portal/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func newTestApp(h fiber.Handler, mws ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(quietLogger()).Middleware())
	for _, mw := range mws {
		app.Use(mw)
	}
	app.Get("/", h)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp.StatusCode, body
}

func TestErrorMiddleware_AppError(t *testing.T) {
	app := newTestApp(func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusConflict, "already there", fiber.Map{"field": "email"}, errors.New("dup"))
	})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if body["success"] != false || body["message"] != "already there" || body["field"] != "email" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestErrorMiddleware_HidesInternalDetails(t *testing.T) {
	app := newTestApp(func(c fiber.Ctx) error {
		return errors.New("pq: relation users does not exist")
	})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body["message"] != "Internal Server Error" {
		t.Fatalf("expected generic message, got %v", body["message"])
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := newTestApp(func(c fiber.Ctx) error {
		panic("boom")
	})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if status != fiber.StatusInternalServerError || body["success"] != false {
		t.Fatalf("expected 500 envelope, got %d %v", status, body)
	}
}

func TestErrorMiddleware_FiberError(t *testing.T) {
	app := newTestApp(func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "")
	})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if status != fiber.StatusBadRequest || body["message"] != "bad request" {
		t.Fatalf("unexpected response: %d %v", status, body)
	}
}

type fakeAuthenticator struct {
	sess jwt.Session
	err  error
}

func (f fakeAuthenticator) Authenticate(context.Context, string) (jwt.Session, error) {
	return f.sess, f.err
}

func authApp(auth Authenticator) *fiber.App {
	return newTestApp(func(c fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return errors.New("user id missing")
		}
		return c.JSON(fiber.Map{"id": id.String()})
	}, NewAuthMiddleware(auth).Middleware())
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	}
	return req
}

func TestAuthMiddleware_RejectsMissingCookie(t *testing.T) {
	status, body := do(t, authApp(fakeAuthenticator{}), requestWithToken(""))
	if status != fiber.StatusUnauthorized || body["message"] != "User is not authenticated" {
		t.Fatalf("unexpected response: %d %v", status, body)
	}
}

func TestAuthMiddleware_Messages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{jwt.ErrTokenExpired, "Token expired"},
		{jwt.ErrTokenInvalid, "Invalid token"},
		{jwt.ErrTokenMalformed, "Invalid token"},
		{errors.New("session revoked"), "Invalid token"},
	}
	for _, tc := range cases {
		status, body := do(t, authApp(fakeAuthenticator{err: tc.err}), requestWithToken("abc"))
		if status != fiber.StatusUnauthorized || body["message"] != tc.want {
			t.Fatalf("%v: unexpected response: %d %v", tc.err, status, body)
		}
	}
}

func TestAuthMiddleware_SetsUserID(t *testing.T) {
	userID := uuid.New()
	auth := fakeAuthenticator{sess: jwt.Session{UserID: userID, TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)}}

	status, body := do(t, authApp(auth), requestWithToken("abc"))
	if status != fiber.StatusOK || body["id"] != userID.String() {
		t.Fatalf("unexpected response: %d %v", status, body)
	}
}
