package authController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	prev := config.AppConfig.JWTKey
	config.AppConfig.JWTKey = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTKey = prev })

	app := fiber.New()
	app.Post("/auth/signup", authValidators.Signup(), Signup)
	app.Get("/auth/confirm/:token", ConfirmAccount)
	app.Post("/auth/login", authValidators.Login(), Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	return resp
}

func TestSignupConfirmLogin(t *testing.T) {
	db := database.ConnectTestDb(t)
	app := newAuthApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret-password",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", resp.StatusCode)
	}

	var user models.User
	if err := db.Where("email = ?", "ana@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.IsActive {
		t.Fatalf("new account should start inactive")
	}

	var profile models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		t.Fatalf("signup did not create a profile: %v", err)
	}

	// Login is blocked until the account is confirmed.
	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "ana@example.com",
		"password": "secret-password",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("inactive login status = %d, want 403", resp.StatusCode)
	}

	token, err := middleware.GenerateActivationToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("activation token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/confirm/"+token, nil)
	confirmResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	if confirmResp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d, want 200", confirmResp.StatusCode)
	}

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "ana@example.com",
		"password": "secret-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if parsed.Data.Token == "" {
		t.Fatalf("login response has no token")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	database.ConnectTestDb(t)
	app := newAuthApp(t)

	payload := fiber.Map{"name": "Ana", "email": "ana@example.com", "password": "secret-password"}
	if resp := postJSON(t, app, "/auth/signup", payload); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first signup status = %d", resp.StatusCode)
	}
	if resp := postJSON(t, app, "/auth/signup", payload); resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", resp.StatusCode)
	}
}

func TestSignup_Validation(t *testing.T) {
	database.ConnectTestDb(t)
	app := newAuthApp(t)

	resp := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "A",
		"email":    "not-an-email",
		"password": "short",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	database.ConnectTestDb(t)
	app := newAuthApp(t)

	postJSON(t, app, "/auth/signup", fiber.Map{"name": "Ana", "email": "ana@example.com", "password": "secret-password"})

	resp := postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
