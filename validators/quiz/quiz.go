package quizValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmitQuiz expects {"answers": {"<questionID>": <choiceID>, ...}}.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers map[uint]uint `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Answers == nil {
			reqData.Answers = map[uint]uint{}
		}

		c.Locals("validatedAnswers", reqData.Answers)
		return c.Next()
	}
}
