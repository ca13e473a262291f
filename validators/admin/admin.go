package adminValidator

import (
	"strconv"

	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

var validStatuses = map[string]bool{
	models.PurchasePending:  true,
	models.PurchasePaid:     true,
	models.PurchaseFailed:   true,
	models.PurchaseRefunded: true,
}

func PurchaseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid purchase id!", nil)
		}

		c.Locals("purchaseID", id)
		return c.Next()
	}
}

func PurchaseStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid purchase id!", nil)
		}

		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if !validStatuses[reqData.Status] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be one of: pending, paid, failed, refunded!", nil)
		}

		c.Locals("purchaseID", id)
		c.Locals("newStatus", reqData.Status)
		return c.Next()
	}
}

func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
		}

		c.Locals("targetUserID", id)
		return c.Next()
	}
}
