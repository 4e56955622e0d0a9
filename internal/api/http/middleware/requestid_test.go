package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	var got string
	var ok bool
	app.Get("/", func(c fiber.Ctx) error {
		got, ok = RequestIDFromFiber(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if !ok || got == "" {
		t.Fatal("request id not available in handler locals")
	}
	if hdr := resp.Header.Get(HeaderRequestID); hdr != got {
		t.Fatalf("response header = %q, locals = %q; want them equal", hdr, got)
	}
}

func TestRequestIDPreservesIncoming(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	var got string
	app.Get("/", func(c fiber.Ctx) error {
		got, _ = RequestIDFromFiber(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "client-supplied-id")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if got != "client-supplied-id" {
		t.Fatalf("locals request id = %q, want client-supplied-id", got)
	}
	if hdr := resp.Header.Get(HeaderRequestID); hdr != "client-supplied-id" {
		t.Fatalf("response header = %q, want client-supplied-id", hdr)
	}
}

func TestRequestIDFromFiberMissing(t *testing.T) {
	app := fiber.New()

	var ok bool
	app.Get("/", func(c fiber.Ctx) error {
		_, ok = RequestIDFromFiber(c)
		return c.SendStatus(fiber.StatusOK)
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if ok {
		t.Fatal("RequestIDFromFiber reported a request id without the middleware")
	}
}
