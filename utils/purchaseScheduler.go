package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Pending purchases older than this are considered abandoned.
const pendingPurchaseTTL = 30 * 24 * time.Hour

// InitializePurchaseScheduler sets up the daily sweep over stale
// pending purchases.
func InitializePurchaseScheduler() {
	log.Println("[PURCHASE-SCHEDULER] Initializing purchase scheduler...")

	c := cron.New()

	// Run daily at 4 AM
	c.AddFunc("0 4 * * *", func() {
		log.Println("[PURCHASE-SCHEDULER] Running daily stale purchase check...")
		ExpireStalePurchases()
	})

	c.Start()
	log.Println("[PURCHASE-SCHEDULER] Purchase scheduler started - runs daily at 4 AM")
}

// ExpireStalePurchases marks abandoned pending purchases as failed.
// Purchases with an uploaded transfer receipt are skipped; those wait
// for manual review.
func ExpireStalePurchases() {
	db := database.Database.Db
	cutoff := time.Now().Add(-pendingPurchaseTTL)

	res := db.Model(&models.Purchase{}).
		Where("status = ? AND created_at < ?", models.PurchasePending, cutoff).
		Where("external_ref NOT LIKE ?", "TRANSFER:%").
		Update("status", models.PurchaseFailed)
	if res.Error != nil {
		log.Printf("[PURCHASE-SCHEDULER] Error expiring purchases: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("[PURCHASE-SCHEDULER] Marked %d stale pending purchases as failed", res.RowsAffected)
	}
}
