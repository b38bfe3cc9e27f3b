package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func newTestApp(t *testing.T) (*fiber.App, Middleware) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := New(logger)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewAccessLogMiddleware())
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})
	return app, m
}

func TestRequestIDIsGenerated(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/id", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)

	id := resp.Header.Get(RequestIDKey)
	if len(id) != 26 {
		t.Fatalf("expected a ULID request id, got %q", id)
	}
	if string(body) != id {
		t.Fatalf("handler saw %q, header has %q", body, id)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/id", nil)
	req.Header.Set(RequestIDKey, "robot-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}

	if got := resp.Header.Get(RequestIDKey); got != "robot-42" {
		t.Fatalf("request id = %q", got)
	}
}

func TestRateLimiterRejectsBursts(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	m := New(logger)

	app := fiber.New()
	app.Get("/limited", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	limited := false
	for i := 0; i < 100; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode == fiber.StatusTooManyRequests {
			limited = true
			break
		}
	}

	if !limited {
		t.Fatal("expected the limiter to reject part of a 100 request burst")
	}
}

func TestSanitizeRequestBody(t *testing.T) {
	got := sanitizeRequestBody(fiber.MIMEApplicationJSON, []byte(`{"api_key":"abc","name":"frame"}`))
	if strings.Contains(got, "abc") || !strings.Contains(got, "frame") {
		t.Fatalf("unexpected sanitized body %s", got)
	}

	if got := sanitizeRequestBody("multipart/form-data; boundary=x", []byte("\xff\xd8")); got != "[binary body]" {
		t.Fatalf("binary body leaked: %s", got)
	}
}
