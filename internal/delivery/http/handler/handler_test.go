package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/pkg/validate"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// newTestApp mounts routes behind the error middleware. A non-nil userID is
// injected the way AuthMiddleware would.
func newTestApp(userID uuid.UUID, mount func(r fiber.Router, auth fiber.Handler)) *fiber.App {
	app := fiber.New(fiber.Config{StructValidator: validate.New()})
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())

	auth := func(c fiber.Ctx) error {
		if userID == uuid.Nil {
			return middleware.NewAppError(fiber.StatusUnauthorized, "User is not authenticated", nil, nil)
		}
		c.Locals(middleware.CtxUserIDKey, userID)
		return c.Next()
	}
	mount(app, auth)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
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
	return resp, body
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// multipartRequest builds a form body; fileField is skipped when empty.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
