package cartController

import (
	"fmt"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/payments"

	"github.com/gofiber/fiber/v2"
)

// GetCart returns the session cart and its total.
func GetCart(c *fiber.Ctx) error {
	cart, err := middleware.LoadCart(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load cart!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart fetched successfully!", fiber.Map{
		"items":     cart,
		"total_ars": cart.TotalARS(),
	})
}

// AddToCart puts a stage or bundle line into the session cart.
func AddToCart(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCartAdd").(*struct {
		Type string `json:"type"`
		ID   uint   `json:"id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var item models.CartItem
	switch reqData.Type {
	case models.ItemTypeStage:
		var stage models.Stage
		if err := db.Preload("Course").First(&stage, reqData.ID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Stage not found!", nil)
		}
		courseTitle := ""
		if stage.Course != nil {
			courseTitle = stage.Course.Title
		}
		item = models.CartItem{
			Type:        models.ItemTypeStage,
			ID:          stage.ID,
			Title:       fmt.Sprintf("Etapa %d — %s", stage.Order, stage.Title),
			CourseTitle: courseTitle,
			PriceARS:    stage.PriceARS,
		}
	case models.ItemTypeBundle:
		var bundle models.Bundle
		if err := db.Preload("Course").First(&bundle, reqData.ID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Bundle not found!", nil)
		}
		courseTitle := ""
		if bundle.Course != nil {
			courseTitle = bundle.Course.Title
		}
		title := bundle.Title
		if courseTitle != "" {
			title = courseTitle
		}
		item = models.CartItem{
			Type:        models.ItemTypeBundle,
			ID:          bundle.ID,
			Title:       fmt.Sprintf("Curso completo — %s", title),
			CourseTitle: courseTitle,
			PriceARS:    bundle.PriceARS,
		}
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid item type!", nil)
	}

	cart, err := middleware.LoadCart(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load cart!", nil)
	}
	cart[models.CartKey(item.Type, item.ID)] = item
	if err := middleware.SaveCart(c, cart); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save cart!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item added to cart!", fiber.Map{
		"items":     cart,
		"total_ars": cart.TotalARS(),
	})
}

// RemoveFromCart drops one line from the cart by its key.
func RemoveFromCart(c *fiber.Ctx) error {
	key := c.Params("key")

	cart, err := middleware.LoadCart(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load cart!", nil)
	}

	if _, found := cart[key]; found {
		delete(cart, key)
		if err := middleware.SaveCart(c, cart); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save cart!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Item removed from cart!", fiber.Map{
		"items":     cart,
		"total_ars": cart.TotalARS(),
	})
}

// ClearCart empties the cart.
func ClearCart(c *fiber.Ctx) error {
	if err := middleware.SaveCart(c, models.Cart{}); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save cart!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart cleared!", nil)
}

// CheckoutCart converts the cart into a pending purchase and empties
// the cart. The purchase id is returned so the client can continue to
// the checkout screen.
func CheckoutCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	cart, err := middleware.LoadCart(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load cart!", nil)
	}
	if len(cart) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cart is empty!", nil)
	}

	items := make([]payments.CheckoutItem, 0, len(cart))
	for _, it := range cart {
		price := it.PriceARS
		items = append(items, payments.CheckoutItem{
			Type:     it.Type,
			ID:       it.ID,
			PriceARS: &price,
		})
	}

	purchase, err := payments.CreateCheckout(database.Database.Db, userID, items)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create checkout!", nil)
	}

	if err := middleware.SaveCart(c, models.Cart{}); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save cart!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout created!", fiber.Map{
		"purchase_id": purchase.ID,
		"total_ars":   purchase.TotalARS,
	})
}
