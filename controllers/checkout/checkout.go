package checkoutController

import (
	"errors"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/payments"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// GetCheckout returns a purchase ready to pay. With ?pid= it loads an
// existing purchase; with ?stage_id= / ?bundle_id= it creates one on
// the fly. When Mercado Pago is configured the response carries the
// hosted checkout URL; otherwise the bank-transfer instructions.
func GetCheckout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var purchase *models.Purchase

	if pid := c.QueryInt("pid"); pid > 0 {
		var existing models.Purchase
		if err := db.First(&existing, pid).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Purchase not found!", nil)
		}
		if existing.UserID != userID {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your purchase!", nil)
		}
		purchase = &existing
	} else {
		items := []payments.CheckoutItem{}
		if stageID := c.QueryInt("stage_id"); stageID > 0 {
			items = append(items, payments.CheckoutItem{Type: models.ItemTypeStage, ID: uint(stageID)})
		}
		if bundleID := c.QueryInt("bundle_id"); bundleID > 0 {
			items = append(items, payments.CheckoutItem{Type: models.ItemTypeBundle, ID: uint(bundleID)})
		}
		if len(items) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Select a stage or the full course!", nil)
		}

		created, err := payments.CreateCheckout(db, userID, items)
		if err != nil {
			if errors.Is(err, payments.ErrNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Item not found!", nil)
			}
			if errors.Is(err, payments.ErrInvalidInput) {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid item type!", nil)
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create checkout!", nil)
		}
		purchase = created
	}

	db.Preload("Items.Stage").Preload("Items.Bundle").First(purchase, purchase.ID)
	view := models.NewPurchaseView(*purchase, utils.GetFileURL)

	// Gateway unavailable is not an error here: the checkout degrades
	// to the manual transfer path.
	_, initPoint, err := payments.CreatePreferenceForPurchase(utils.MP, config.AppConfig, db, purchase)
	if err != nil && !errors.Is(err, payments.ErrGatewayUnavailable) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to prepare payment!", nil)
	}
	if err != nil {
		log.Printf("[CHECKOUT] Mercado Pago unavailable for purchase %d: %v", purchase.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout ready!", fiber.Map{
		"purchase":      view,
		"mp_init_point": initPoint,
		"transfer": fiber.Map{
			"cbu":   config.AppConfig.TransferCBU,
			"alias": config.AppConfig.TransferAlias,
		},
	})
}

// SubmitTransferReceipt stores an uploaded bank-transfer receipt for a
// pending purchase. The purchase stays pending until an admin marks it
// paid; the receipt path is kept in ExternalRef.
func SubmitTransferReceipt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	purchaseID, ok := c.Locals("purchaseID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid purchase id!", nil)
	}

	db := database.Database.Db

	var purchase models.Purchase
	if err := db.First(&purchase, purchaseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Purchase not found!", nil)
	}
	if purchase.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your purchase!", nil)
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attach the receipt (PDF/JPG/PNG)!", nil)
	}

	storedPath, err := utils.SaveReceipt(file, config.AppConfig.UploadDir, purchase.ID)
	if err != nil {
		log.Printf("[CHECKOUT] Failed to store receipt for purchase %d: %v", purchase.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store receipt!", nil)
	}

	updates := map[string]interface{}{
		"external_ref": fmt.Sprintf("TRANSFER:%s", storedPath),
	}
	if purchase.Status != models.PurchasePaid {
		updates["status"] = models.PurchasePending
	}
	if err := db.Model(&purchase).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update purchase!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true,
		"Receipt uploaded! We are validating the transfer; check back in a few minutes.", fiber.Map{
			"purchase_id": purchase.ID,
			"receipt_url": utils.GetFileURL(storedPath),
		})
}
