// Package payments builds pending orders and turns confirmed payments
// into entitlements and enrollments.
package payments

import (
	"errors"
	"fmt"

	"lms/models"

	"gorm.io/gorm"
)

// CheckoutItem is one cart line. PriceARS overrides the catalog price
// when set; otherwise the price is snapshotted from the catalog at
// checkout time.
type CheckoutItem struct {
	Type     string   `json:"type"` // stage or bundle
	ID       uint     `json:"id"`
	PriceARS *float64 `json:"price_ars"`
}

// CreateCheckout creates a pending Purchase with its items in one
// transaction. Any bad item rolls the whole order back; no partial
// order is left behind.
func CreateCheckout(db *gorm.DB, userID uint, items []CheckoutItem) (*models.Purchase, error) {
	var purchase *models.Purchase

	err := db.Transaction(func(tx *gorm.DB) error {
		p := models.Purchase{
			UserID:   userID,
			Status:   models.PurchasePending,
			TotalARS: 0,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		total := 0.0
		for _, it := range items {
			switch it.Type {
			case models.ItemTypeStage:
				var stage models.Stage
				if err := tx.First(&stage, it.ID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("stage %d: %w", it.ID, ErrNotFound)
					}
					return err
				}
				price := stage.PriceARS
				if it.PriceARS != nil {
					price = *it.PriceARS
				}
				stageID := stage.ID
				item := models.PurchaseItem{
					PurchaseID: p.ID,
					Type:       models.ItemTypeStage,
					StageID:    &stageID,
					PriceARS:   price,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				total += price

			case models.ItemTypeBundle:
				var bundle models.Bundle
				if err := tx.First(&bundle, it.ID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("bundle %d: %w", it.ID, ErrNotFound)
					}
					return err
				}
				price := bundle.PriceARS
				if it.PriceARS != nil {
					price = *it.PriceARS
				}
				bundleID := bundle.ID
				item := models.PurchaseItem{
					PurchaseID: p.ID,
					Type:       models.ItemTypeBundle,
					BundleID:   &bundleID,
					PriceARS:   price,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				total += price

			default:
				return ErrInvalidInput
			}
		}

		p.TotalARS = total
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		purchase = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}
