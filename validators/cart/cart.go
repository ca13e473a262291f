package cartValidator

import (
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

func AddItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Type string `json:"type"`
			ID   uint   `json:"id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Type != models.ItemTypeStage && reqData.Type != models.ItemTypeBundle {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "invalid item type (use 'stage' or 'bundle')", nil)
		}
		if reqData.ID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Item id is required!", nil)
		}

		c.Locals("validatedCartAdd", reqData)
		return c.Next()
	}
}
