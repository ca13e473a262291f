package paymentController

import (
	"fmt"
	"lms/database"
	"lms/models"
	"lms/services/payments"
	"lms/utils"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// webhookParam reads a field from the form body first, then the query
// string, so both POST notifications and GET pings work.
func webhookParam(c *fiber.Ctx, keys ...string) string {
	for _, key := range keys {
		if v := c.FormValue(key); v != "" {
			return v
		}
		if v := c.Query(key); v != "" {
			return v
		}
	}
	return ""
}

// PaymentWebhook handles payment notifications. Two shapes are
// accepted:
//   - manual/test form: purchase_id (+ optional external_ref), no
//     topic/type — fulfills directly without touching the gateway;
//   - Mercado Pago: topic/type == "payment" with a payment id, which
//     is queried back for the authoritative status and the purchase id
//     it references.
//
// Responses are plain text; gateways only care about the status code.
func PaymentWebhook(c *fiber.Ctx) error {
	db := database.Database.Db

	topic := webhookParam(c, "topic", "type")

	// Manual mode: internal testing and transfer confirmation flows.
	if purchaseID := webhookParam(c, "purchase_id"); purchaseID != "" && topic == "" {
		id, err := strconv.Atoi(purchaseID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("invalid purchase_id")
		}

		var purchase models.Purchase
		if err := db.First(&purchase, id).Error; err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}

		externalRef := webhookParam(c, "external_ref")
		if externalRef == "" {
			externalRef = "MANUAL"
		}

		wasPaid := purchase.Status == models.PurchasePaid
		if err := payments.MarkPaidAndGrant(db, &purchase, externalRef); err != nil {
			log.Printf("[WEBHOOK] Manual fulfillment failed for purchase %d: %v", purchase.ID, err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if !wasPaid {
			notifyPurchasePaid(&purchase)
		}
		return c.SendString("ok")
	}

	// Mercado Pago notification.
	if topic != "payment" {
		return c.SendString("ignored")
	}

	paymentID := webhookParam(c, "id", "data.id")
	if paymentID == "" {
		return c.Status(fiber.StatusBadRequest).SendString("missing payment id")
	}

	if utils.MP == nil || !utils.MP.Configured() {
		return c.Status(fiber.StatusInternalServerError).SendString("mp token not configured")
	}

	payment, err := utils.MP.GetPayment(paymentID)
	if err != nil {
		log.Printf("[WEBHOOK] Error querying payment %s: %v", paymentID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("error contacting mp")
	}

	if payment.ExternalReference == "" {
		return c.Status(fiber.StatusBadRequest).SendString("no external_reference")
	}

	if payment.Status == "approved" || payment.Status == "authorized" {
		purchaseID, err := strconv.Atoi(payment.ExternalReference)
		if err != nil {
			return c.Status(fiber.StatusNotFound).SendString("purchase not found")
		}

		var purchase models.Purchase
		if err := db.First(&purchase, purchaseID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).SendString("purchase not found")
		}

		ref := fmt.Sprintf("MP:%s", paymentID)
		wasPaid := purchase.Status == models.PurchasePaid
		if err := payments.MarkPaidAndGrant(db, &purchase, ref); err != nil {
			log.Printf("[WEBHOOK] Fulfillment failed for purchase %d: %v", purchase.ID, err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if !wasPaid {
			notifyPurchasePaid(&purchase)
		}
	}

	return c.SendString("ok")
}

// notifyPurchasePaid sends the confirmation email off the request path.
func notifyPurchasePaid(purchase *models.Purchase) {
	var user models.User
	if err := database.Database.Db.First(&user, purchase.UserID).Error; err != nil {
		return
	}
	go func(email, name string, id uint, total float64) {
		if err := utils.SendPurchaseConfirmation(email, name, id, total); err != nil {
			log.Printf("[WEBHOOK] Failed to send confirmation for purchase %d: %v", id, err)
		}
	}(user.Email, user.Name, purchase.ID, purchase.TotalARS)
}
