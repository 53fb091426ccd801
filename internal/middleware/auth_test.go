package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"counselhub/internal/auth"
)

func newTestApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Get("/student", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/admin", m.RequireAdmin(), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

// The middleware must reject requests before ever touching the database, so a
// nil DB is fine for these cases.
func TestRequireAuthRejectsWithoutToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	app := newTestApp(NewAuthMiddleware(tokens, nil))

	req, _ := http.NewRequest("GET", "/student", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("got status %d, want 401", resp.StatusCode)
	}
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	app := newTestApp(NewAuthMiddleware(tokens, nil))

	req, _ := http.NewRequest("GET", "/student", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("got status %d, want 401", resp.StatusCode)
	}
}

func TestRequireAuthRejectsAdminToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	app := newTestApp(NewAuthMiddleware(tokens, nil))

	token, err := tokens.Issue(uuid.New(), "admin@example.edu", "SUPER_ADMIN")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req, _ := http.NewRequest("GET", "/student", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("admin token on student endpoint: got status %d, want 401", resp.StatusCode)
	}
}

func TestRequireAdminRejectsStudentToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	app := newTestApp(NewAuthMiddleware(tokens, nil))

	token, err := tokens.Issue(uuid.New(), `\COLLEGE\jdoe`, "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("student token on admin endpoint: got status %d, want 401", resp.StatusCode)
	}
}

func TestExtractTokenPrefersCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/echo", func(c fiber.Ctx) error {
		return c.SendString(extractToken(c))
	})

	req, _ := http.NewRequest("GET", "/echo", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	if got := string(body[:n]); got != "cookie-token" {
		t.Errorf("extractToken() = %q, want cookie-token", got)
	}
}
