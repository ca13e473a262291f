package checkoutRoutes

import (
	checkoutControllers "lms/controllers/checkout"
	paymentControllers "lms/controllers/payment"
	"lms/middleware"
	checkoutValidators "lms/validators/checkout"

	"github.com/gofiber/fiber/v2"
)

func SetupCheckoutRoutes(app *fiber.App) {
	checkoutGroup := app.Group("/checkout")

	checkoutGroup.Get("/", middleware.JWTMiddleware, checkoutControllers.GetCheckout)
	checkoutGroup.Post("/:id/receipt", middleware.JWTMiddleware, checkoutValidators.PurchaseID(), checkoutControllers.SubmitTransferReceipt)

	// MercadoPago notifies via GET or POST depending on the topic, so
	// the webhook accepts all methods. No auth: the handler verifies
	// the payment against the MP API instead.
	app.All("/webhooks/pago", paymentControllers.PaymentWebhook)
}
