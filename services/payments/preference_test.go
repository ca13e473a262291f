package payments

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/utils"
)

func TestCreatePreferenceForPurchase(t *testing.T) {
	db := database.ConnectTestDb(t)
	stages, bundle := seedCatalog(t, db)

	purchase, err := CreateCheckout(db, 1, []CheckoutItem{
		{Type: models.ItemTypeStage, ID: stages[0].ID},
		{Type: models.ItemTypeBundle, ID: bundle.ID},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	var gotReq utils.PreferenceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(utils.PreferenceResponse{
			ID:               "pref-9",
			SandboxInitPoint: "https://sandbox.mp.example/init",
		})
	}))
	defer srv.Close()

	cfg := &config.Config{
		MPAccessToken: "TEST-TOKEN",
		MPAPIBaseURL:  srv.URL,
		MPWebhookURL:  "https://app.example/webhooks/pago",
		MPSuccessURL:  "https://app.example/gracias",
	}
	mp := utils.NewMercadoPago(cfg)

	prefID, initPoint, err := CreatePreferenceForPurchase(mp, cfg, db, purchase)
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}
	if prefID != "pref-9" {
		t.Fatalf("pref id = %q", prefID)
	}
	// Production init point missing: the sandbox one is used.
	if initPoint != "https://sandbox.mp.example/init" {
		t.Fatalf("init point = %q", initPoint)
	}

	if gotReq.ExternalReference != "1" {
		t.Fatalf("external_reference = %q, want the purchase id", gotReq.ExternalReference)
	}
	if gotReq.NotificationURL != cfg.MPWebhookURL {
		t.Fatalf("notification_url = %q", gotReq.NotificationURL)
	}
	if len(gotReq.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(gotReq.Items))
	}
	if gotReq.Items[0].UnitPrice != 1000 || gotReq.Items[0].CurrencyID != "ARS" {
		t.Fatalf("first line = %+v", gotReq.Items[0])
	}
	if gotReq.Items[1].Title != "Curso completo: Curso" {
		t.Fatalf("bundle line title = %q", gotReq.Items[1].Title)
	}
}

func TestCreatePreferenceForPurchase_Unconfigured(t *testing.T) {
	db := database.ConnectTestDb(t)
	stages, _ := seedCatalog(t, db)

	purchase, err := CreateCheckout(db, 1, []CheckoutItem{
		{Type: models.ItemTypeStage, ID: stages[0].ID},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	cfg := &config.Config{MPAPIBaseURL: "https://api.mercadopago.com"}
	mp := utils.NewMercadoPago(cfg)

	_, _, err = CreatePreferenceForPurchase(mp, cfg, db, purchase)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("err = %v, want ErrGatewayUnavailable", err)
	}
}

func TestCreatePreferenceForPurchase_TransportError(t *testing.T) {
	db := database.ConnectTestDb(t)
	stages, _ := seedCatalog(t, db)

	purchase, err := CreateCheckout(db, 1, []CheckoutItem{
		{Type: models.ItemTypeStage, ID: stages[0].ID},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close() // connection refused from here on

	cfg := &config.Config{MPAccessToken: "TEST-TOKEN", MPAPIBaseURL: srv.URL}
	mp := utils.NewMercadoPago(cfg)

	_, _, err = CreatePreferenceForPurchase(mp, cfg, db, purchase)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("err = %v, want wrapped ErrGatewayUnavailable", err)
	}
}
