package profileRoutes

import (
	profileControllers "lms/controllers/profile"
	"lms/middleware"
	profileValidators "lms/validators/profile"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App) {
	profileGroup := app.Group("/profile")

	profileGroup.Get("/", middleware.JWTMiddleware, profileControllers.GetProfile)
	profileGroup.Patch("/", middleware.JWTMiddleware, profileValidators.UpdateProfile(), profileControllers.UpdateProfile)
}
