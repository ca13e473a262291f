package payments

import (
	"log"
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// MarkPaidAndGrant transitions a purchase to paid and grants the
// access it bought: one Enrollment per course involved and one
// Entitlement per stage (direct or via bundle).
//
// Safe to call redundantly: an already-paid purchase is a no-op, and
// the status flip is a conditional UPDATE so concurrent webhook
// deliveries cannot both grant. When externalRef is empty the stored
// reference is preserved (e.g. a transfer receipt path).
func MarkPaidAndGrant(db *gorm.DB, purchase *models.Purchase, externalRef string) error {
	if purchase.Status == models.PurchasePaid {
		return nil // idempotent
	}

	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": models.PurchasePaid}
		if externalRef != "" {
			updates["external_ref"] = externalRef
		}

		res := tx.Model(&models.Purchase{}).
			Where("id = ? AND status <> ?", purchase.ID, models.PurchasePaid).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another delivery won the race; nothing left to do.
			return nil
		}

		purchase.Status = models.PurchasePaid
		if externalRef != "" {
			purchase.ExternalRef = externalRef
		}

		var items []models.PurchaseItem
		if err := tx.Preload("Stage").Preload("Bundle.Stages").
			Where("purchase_id = ?", purchase.ID).Find(&items).Error; err != nil {
			return err
		}

		// Enrollment per distinct course touched by this purchase.
		courseIDs := map[uint]bool{}
		for _, item := range items {
			if item.Type == models.ItemTypeStage && item.Stage != nil {
				courseIDs[item.Stage.CourseID] = true
			} else if item.Type == models.ItemTypeBundle && item.Bundle != nil {
				courseIDs[item.Bundle.CourseID] = true
			}
		}
		for cid := range courseIDs {
			enrollment := models.Enrollment{
				UserID:    purchase.UserID,
				CourseID:  cid,
				StartedAt: time.Now(),
			}
			err := tx.Where("user_id = ? AND course_id = ?", purchase.UserID, cid).
				FirstOrCreate(&enrollment).Error
			if err != nil {
				return err
			}
		}

		// Entitlement per stage. Existing rows keep their source.
		grant := func(stageID uint, source string) error {
			entitlement := models.Entitlement{
				UserID:  purchase.UserID,
				StageID: stageID,
				Source:  source,
			}
			return tx.Where("user_id = ? AND stage_id = ?", purchase.UserID, stageID).
				FirstOrCreate(&entitlement).Error
		}

		for _, item := range items {
			if item.Type == models.ItemTypeStage && item.StageID != nil {
				if err := grant(*item.StageID, models.EntitlementSourceStage); err != nil {
					return err
				}
			} else if item.Type == models.ItemTypeBundle && item.Bundle != nil {
				for _, st := range item.Bundle.Stages {
					if err := grant(st.ID, models.EntitlementSourceBundle); err != nil {
						return err
					}
				}
			}
		}

		log.Printf("[PAYMENTS] Purchase %d marked paid (%d items)", purchase.ID, len(items))
		return nil
	})
}
