package adminRoutes

import (
	adminControllers "lms/controllers/admin"
	"lms/middleware"
	adminValidators "lms/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Get("/purchases", adminControllers.GetPurchases)
	adminGroup.Patch("/purchases/:id/status", adminValidators.PurchaseStatus(), adminControllers.UpdatePurchaseStatus)
	adminGroup.Delete("/purchases/:id", adminValidators.PurchaseID(), adminControllers.DeletePurchase)
	adminGroup.Get("/users/:id", adminValidators.UserID(), adminControllers.GetUserDetail)
	adminGroup.Get("/summary", adminControllers.GetSummary)
}
