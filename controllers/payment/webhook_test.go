package paymentController

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/services/access"
	"lms/services/payments"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newWebhookApp(t *testing.T) *fiber.App {
	t.Helper()

	// Email falls back to console logging with a blank config. Not
	// restored: the confirmation goroutine may outlive the test.
	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}

	app := fiber.New()
	app.All("/webhooks/pago", PaymentWebhook)
	return app
}

func seedPendingPurchase(t *testing.T, db *gorm.DB) *models.Purchase {
	t.Helper()

	user := models.User{Name: "Ana", Email: "ana@example.com", Password: "x", IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	course := models.Course{Title: "Curso", Slug: "curso"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	stage := models.Stage{CourseID: course.ID, Title: "Etapa 1", Slug: "etapa-1", Order: 1, PriceARS: 1000}
	if err := db.Create(&stage).Error; err != nil {
		t.Fatalf("create stage: %v", err)
	}

	purchase, err := payments.CreateCheckout(db, user.ID, []payments.CheckoutItem{
		{Type: models.ItemTypeStage, ID: stage.ID},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return purchase
}

func postForm(t *testing.T, app *fiber.App, values url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/pago", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	return resp
}

func TestPaymentWebhook_ManualMode(t *testing.T) {
	db := database.ConnectTestDb(t)
	app := newWebhookApp(t)
	purchase := seedPendingPurchase(t, db)

	resp := postForm(t, app, url.Values{"purchase_id": {"1"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("body = %q, want ok", body)
	}

	var got models.Purchase
	if err := db.First(&got, purchase.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.PurchasePaid {
		t.Fatalf("status = %q, want paid", got.Status)
	}
	if got.ExternalRef != "MANUAL" {
		t.Fatalf("external_ref = %q, want MANUAL", got.ExternalRef)
	}

	var entCount int64
	db.Model(&models.Entitlement{}).Count(&entCount)
	if entCount != 1 {
		t.Fatalf("entitlements = %d, want 1", entCount)
	}
}

func TestPaymentWebhook_ManualModeUnknownPurchase(t *testing.T) {
	database.ConnectTestDb(t)
	app := newWebhookApp(t)

	resp := postForm(t, app, url.Values{"purchase_id": {"999"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPaymentWebhook_IgnoresOtherTopics(t *testing.T) {
	database.ConnectTestDb(t)
	app := newWebhookApp(t)

	resp := postForm(t, app, url.Values{"topic": {"merchant_order"}, "id": {"1"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ignored" {
		t.Fatalf("body = %q, want ignored", body)
	}
}

func TestPaymentWebhook_PaymentTopicFulfills(t *testing.T) {
	db := database.ConnectTestDb(t)
	app := newWebhookApp(t)
	purchase := seedPendingPurchase(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(utils.PaymentResponse{
			ID:                555,
			Status:            "approved",
			ExternalReference: "1",
		})
	}))
	defer srv.Close()

	prevMP := utils.MP
	utils.MP = utils.NewMercadoPago(&config.Config{MPAccessToken: "TEST-TOKEN", MPAPIBaseURL: srv.URL})
	t.Cleanup(func() { utils.MP = prevMP })

	resp := postForm(t, app, url.Values{"topic": {"payment"}, "id": {"555"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got models.Purchase
	if err := db.First(&got, purchase.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.PurchasePaid {
		t.Fatalf("status = %q, want paid", got.Status)
	}
	if got.ExternalRef != "MP:555" {
		t.Fatalf("external_ref = %q, want MP:555", got.ExternalRef)
	}
}

func TestPaymentWebhook_RejectedPaymentLeavesPending(t *testing.T) {
	db := database.ConnectTestDb(t)
	app := newWebhookApp(t)
	purchase := seedPendingPurchase(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(utils.PaymentResponse{
			ID:                556,
			Status:            "rejected",
			ExternalReference: "1",
		})
	}))
	defer srv.Close()

	prevMP := utils.MP
	utils.MP = utils.NewMercadoPago(&config.Config{MPAccessToken: "TEST-TOKEN", MPAPIBaseURL: srv.URL})
	t.Cleanup(func() { utils.MP = prevMP })

	resp := postForm(t, app, url.Values{"topic": {"payment"}, "id": {"556"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (acknowledged)", resp.StatusCode)
	}

	var got models.Purchase
	if err := db.First(&got, purchase.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.PurchasePending {
		t.Fatalf("status = %q, want still pending", got.Status)
	}
}

// Buying a first stage and receiving the webhook must open the stage.
func TestPaymentWebhook_GrantsStageAccess(t *testing.T) {
	db := database.ConnectTestDb(t)
	app := newWebhookApp(t)
	purchase := seedPendingPurchase(t, db)

	var stage models.Stage
	if err := db.First(&stage).Error; err != nil {
		t.Fatalf("load stage: %v", err)
	}

	if ok, reason := access.CanViewStage(db, purchase.UserID, &stage); ok {
		t.Fatalf("stage open before payment")
	} else if reason != access.ReasonNotPurchased {
		t.Fatalf("reason = %q", reason)
	}

	resp := postForm(t, app, url.Values{"purchase_id": {"1"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if ok, reason := access.CanViewStage(db, purchase.UserID, &stage); !ok {
		t.Fatalf("stage still blocked after payment: %q", reason)
	}
}

func TestPaymentWebhook_UnconfiguredGateway(t *testing.T) {
	database.ConnectTestDb(t)
	app := newWebhookApp(t)

	prevMP := utils.MP
	utils.MP = utils.NewMercadoPago(&config.Config{MPAPIBaseURL: "https://api.mercadopago.com"})
	t.Cleanup(func() { utils.MP = prevMP })

	resp := postForm(t, app, url.Values{"topic": {"payment"}, "id": {"1"}})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}
