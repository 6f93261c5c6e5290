package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "github.com/presbond/congreso-back/internals/features/payments/controller"
	authMW "github.com/presbond/congreso-back/internals/middlewares/auth"
)

func PaymentRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := paymentController.NewPaymentController(db)

	payments := app.Group("/payments")

	// Webhook de Midtrans: público, la firma valida el origen.
	payments.Post("/notification", ctrl.Notification)

	payments.Post("/checkout", authMW.AuthMiddleware(db), ctrl.CreateCheckout)
	payments.Get("/:orderId/verify", authMW.AuthMiddleware(db), ctrl.Verify)
}
