package profileValidator

import (
	"time"

	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name       string `json:"name"`
			Email      string `json:"email" validate:"omitempty,email"`
			DNI        string `json:"dni"`
			Phone      string `json:"phone"`
			BirthDate  string `json:"birth_date"` // YYYY-MM-DD
			Address    string `json:"address"`
			PostalCode string `json:"postal_code"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"email": "A valid email is required!",
			})
		}

		if reqData.BirthDate != "" {
			if _, err := time.Parse("2006-01-02", reqData.BirthDate); err != nil {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"birth_date": "Birth date must be YYYY-MM-DD!",
				})
			}
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
