package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"

	"github.com/gofiber/fiber/v2"
)

func setTestKey(t *testing.T) {
	t.Helper()
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	prev := config.AppConfig.JWTKey
	config.AppConfig.JWTKey = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTKey = prev })
}

func TestActivationTokenRoundTrip(t *testing.T) {
	setTestKey(t)

	token, err := GenerateActivationToken(42, "ana@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	uid, email, err := ParseActivationToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != 42 || email != "ana@example.com" {
		t.Fatalf("got %d/%q, want 42/ana@example.com", uid, email)
	}
}

func TestParseActivationToken_RejectsLoginToken(t *testing.T) {
	setTestKey(t)

	// A session token must not activate accounts.
	token, err := GenerateJWT(42, "Ana", "USER", "ana@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := ParseActivationToken(token); err == nil {
		t.Fatalf("login token accepted as activation token")
	}
}

func TestJWTMiddleware(t *testing.T) {
	setTestKey(t)

	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userId").(uint)
		return c.JSON(fiber.Map{"user_id": userID})
	})

	// Missing header.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", resp.StatusCode)
	}

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", resp.StatusCode)
	}

	// Valid token.
	token, err := GenerateJWT(7, "Ana", "USER", "ana@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", resp.StatusCode)
	}
}

func TestOptionalJWT(t *testing.T) {
	setTestKey(t)

	app := fiber.New()
	app.Get("/open", OptionalJWT, func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		return c.JSON(fiber.Map{"resolved": ok, "user_id": userID})
	})

	// Anonymous requests pass through.
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous: status = %d, want 200", resp.StatusCode)
	}

	// So do requests with a broken token.
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer junk")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("broken token: status = %d, want 200", resp.StatusCode)
	}
}
