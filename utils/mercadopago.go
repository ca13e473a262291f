package utils

import (
	"errors"
	"fmt"
	"lms/config"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrMPNotConfigured is returned when no access token is set; callers
// fall back to the manual bank-transfer path.
var ErrMPNotConfigured = errors.New("mercado pago access token not configured")

// MercadoPago is a thin REST client for the two calls this app needs:
// creating a hosted checkout preference and querying a payment.
type MercadoPago struct {
	client      *resty.Client
	accessToken string
}

// MP is the shared gateway client, set up once at boot.
var MP *MercadoPago

// InitMercadoPago builds the shared client from configuration.
func InitMercadoPago(cfg *config.Config) {
	MP = NewMercadoPago(cfg)
}

func NewMercadoPago(cfg *config.Config) *MercadoPago {
	client := resty.New().
		SetBaseURL(cfg.MPAPIBaseURL).
		SetTimeout(10 * time.Second)

	return &MercadoPago{
		client:      client,
		accessToken: cfg.MPAccessToken,
	}
}

// Configured reports whether an access token is available.
func (mp *MercadoPago) Configured() bool {
	return mp.accessToken != ""
}

type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type PreferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PreferenceRequest struct {
	Items             []PreferenceItem   `json:"items"`
	ExternalReference string             `json:"external_reference"`
	NotificationURL   string             `json:"notification_url"`
	BackURLs          PreferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return"`
}

type PreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference requests a hosted checkout session.
func (mp *MercadoPago) CreatePreference(req *PreferenceRequest) (*PreferenceResponse, error) {
	if !mp.Configured() {
		return nil, ErrMPNotConfigured
	}

	var pref PreferenceResponse
	resp, err := mp.client.R().
		SetAuthToken(mp.accessToken).
		SetBody(req).
		SetResult(&pref).
		Post("/checkout/preferences")
	if err != nil {
		return nil, fmt.Errorf("failed to create preference: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("preference API error: %s", resp.String())
	}

	return &pref, nil
}

type PaymentResponse struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

// GetPayment fetches the authoritative status of a payment referenced
// by a webhook notification.
func (mp *MercadoPago) GetPayment(paymentID string) (*PaymentResponse, error) {
	if !mp.Configured() {
		return nil, ErrMPNotConfigured
	}

	var payment PaymentResponse
	resp, err := mp.client.R().
		SetAuthToken(mp.accessToken).
		SetResult(&payment).
		Get("/v1/payments/" + paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment API error: %s", resp.String())
	}

	return &payment, nil
}
