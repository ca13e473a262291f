package cartRoutes

import (
	cartControllers "lms/controllers/cart"
	"lms/middleware"
	cartValidators "lms/validators/cart"

	"github.com/gofiber/fiber/v2"
)

func SetupCartRoutes(app *fiber.App) {
	cartGroup := app.Group("/cart")

	cartGroup.Get("/", cartControllers.GetCart)
	cartGroup.Post("/items", cartValidators.AddItem(), cartControllers.AddToCart)
	cartGroup.Delete("/items/:key", cartControllers.RemoveFromCart)
	cartGroup.Delete("/", cartControllers.ClearCart)

	// Checkout needs a user to attach the purchase to.
	cartGroup.Post("/checkout", middleware.JWTMiddleware, cartControllers.CheckoutCart)
}
