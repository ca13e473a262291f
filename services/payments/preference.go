package payments

import (
	"errors"
	"fmt"
	"strconv"

	"lms/config"
	"lms/models"
	"lms/utils"

	"gorm.io/gorm"
)

// CreatePreferenceForPurchase builds one Mercado Pago line per
// purchase item and requests a hosted checkout session. The purchase
// id travels as external_reference so the webhook can correlate the
// notification back to the order.
//
// The outbound call runs outside any database transaction. When no
// access token is configured the caller gets ErrGatewayUnavailable
// and offers the bank-transfer path instead.
func CreatePreferenceForPurchase(mp *utils.MercadoPago, cfg *config.Config, db *gorm.DB, purchase *models.Purchase) (string, string, error) {
	if !mp.Configured() {
		return "", "", ErrGatewayUnavailable
	}

	var items []models.PurchaseItem
	err := db.Preload("Stage.Course").Preload("Bundle.Course").
		Where("purchase_id = ?", purchase.ID).Find(&items).Error
	if err != nil {
		return "", "", err
	}

	lines := make([]utils.PreferenceItem, 0, len(items))
	for _, it := range items {
		title := "Infinito Capacitaciones"
		if it.Stage != nil {
			courseTitle := ""
			if it.Stage.Course != nil {
				courseTitle = it.Stage.Course.Title
			}
			title = fmt.Sprintf("Etapa: %s (%s)", it.Stage.Title, courseTitle)
		} else if it.Bundle != nil && it.Bundle.Course != nil {
			title = fmt.Sprintf("Curso completo: %s", it.Bundle.Course.Title)
		}

		lines = append(lines, utils.PreferenceItem{
			Title:      title,
			Quantity:   1,
			UnitPrice:  it.PriceARS,
			CurrencyID: "ARS",
		})
	}

	pref, err := mp.CreatePreference(&utils.PreferenceRequest{
		Items:             lines,
		ExternalReference: strconv.FormatUint(uint64(purchase.ID), 10),
		NotificationURL:   cfg.MPWebhookURL,
		BackURLs: utils.PreferenceBackURLs{
			Success: cfg.MPSuccessURL,
			Failure: cfg.MPSuccessURL,
			Pending: cfg.MPSuccessURL,
		},
		AutoReturn: "approved",
	})
	if err != nil {
		if errors.Is(err, utils.ErrMPNotConfigured) {
			return "", "", ErrGatewayUnavailable
		}
		// Transport failures degrade rather than crash the request.
		return "", "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	initPoint := pref.InitPoint
	if initPoint == "" {
		initPoint = pref.SandboxInitPoint
	}
	return pref.ID, initPoint, nil
}
