package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *MercadoPago {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewMercadoPago(&config.Config{
		MPAccessToken: "TEST-TOKEN",
		MPAPIBaseURL:  srv.URL,
	})
}

func TestCreatePreference(t *testing.T) {
	var gotAuth string
	var gotReq PreferenceRequest

	mp := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/checkout/preferences" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PreferenceResponse{
			ID:        "pref-1",
			InitPoint: "https://mp.example/init",
		})
	})

	pref, err := mp.CreatePreference(&PreferenceRequest{
		Items:             []PreferenceItem{{Title: "Etapa 1", Quantity: 1, UnitPrice: 1000, CurrencyID: "ARS"}},
		ExternalReference: "42",
	})
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}
	if pref.ID != "pref-1" || pref.InitPoint != "https://mp.example/init" {
		t.Fatalf("unexpected response: %+v", pref)
	}
	if gotAuth != "Bearer TEST-TOKEN" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotReq.ExternalReference != "42" || len(gotReq.Items) != 1 {
		t.Fatalf("unexpected request body: %+v", gotReq)
	}
}

func TestCreatePreference_APIError(t *testing.T) {
	mp := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid items"}`))
	})

	if _, err := mp.CreatePreference(&PreferenceRequest{}); err == nil {
		t.Fatalf("expected error on 400 response")
	}
}

func TestGetPayment(t *testing.T) {
	mp := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/987" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PaymentResponse{
			ID:                987,
			Status:            "approved",
			ExternalReference: "42",
		})
	})

	payment, err := mp.GetPayment("987")
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != "approved" || payment.ExternalReference != "42" {
		t.Fatalf("unexpected payment: %+v", payment)
	}
}

func TestNotConfigured(t *testing.T) {
	mp := NewMercadoPago(&config.Config{MPAPIBaseURL: "https://api.mercadopago.com"})

	if mp.Configured() {
		t.Fatalf("empty token reported as configured")
	}
	if _, err := mp.CreatePreference(&PreferenceRequest{}); err != ErrMPNotConfigured {
		t.Fatalf("err = %v, want ErrMPNotConfigured", err)
	}
	if _, err := mp.GetPayment("1"); err != ErrMPNotConfigured {
		t.Fatalf("err = %v, want ErrMPNotConfigured", err)
	}
}
