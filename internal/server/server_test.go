package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"counselhub/internal/config"
)

func TestErrorHandlerReturnsJSONEnvelope(t *testing.T) {
	srv := New(&config.Config{Env: "development", ServerAddr: ":0"})
	srv.App.Get("/boom", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	req, _ := http.NewRequest("GET", "/boom", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Errorf("got status %d, want 418", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "error" {
		t.Errorf("got status field %q, want error", body.Status)
	}
	if body.Error != "short and stout" {
		t.Errorf("got error %q, want handler message", body.Error)
	}
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	srv := New(&config.Config{Env: "development", ServerAddr: ":0"})

	req, _ := http.NewRequest("GET", "/no-such-route", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("got status %d, want 404", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != fiber.MIMEApplicationJSON {
		t.Errorf("got content type %q, want JSON", ct)
	}
}

func TestNewWithoutConfiguredOrigins(t *testing.T) {
	// A config with neither BASE_URL nor CORS_ORIGINS must still produce a
	// working app rather than crashing on an empty origin entry.
	srv := New(&config.Config{})
	srv.App.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("pong")
	})

	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("got status %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("got allow origin %q, want none without configuration", got)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	srv := New(&config.Config{
		Env:         "development",
		CORSOrigins: "http://localhost:3000",
	})
	srv.App.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("pong")
	})

	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("got allow origin %q, want configured origin", got)
	}
}
