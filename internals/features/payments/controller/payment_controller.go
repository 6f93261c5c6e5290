package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/payments/dto"
	"github.com/presbond/congreso-back/internals/features/payments/service"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

var validate = validator.New()

type PaymentController struct {
	DB       *gorm.DB
	Checkout *service.CheckoutService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:       db,
		Checkout: service.NewCheckoutService(db),
	}
}

// 🧾 POST /payments/checkout
func (ctrl *PaymentController) CreateCheckout(c *fiber.Ctx) error {
	userID := helper.GetUserIDFromLocals(c)
	if userID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "No autenticado")
	}

	var req dto.CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Usuario no encontrado")
	}

	resp, err := ctrl.Checkout.CreateCheckout(c.Context(), &user, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesión de pago creada", resp)
}

// 🔁 POST /payments/notification (webhook de Midtrans, sin auth)
func (ctrl *PaymentController) Notification(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload inválido")
	}

	if err := service.HandlePaymentNotification(ctrl.DB, body); err != nil {
		log.Println("[ERROR] Webhook de pago falló:", err)
		// 200 para estados desconocidos se maneja dentro del servicio; aquí solo
		// fallan firma inválida, payload malformado o errores de base de datos.
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	return helper.Success(c, "OK", fiber.Map{"received": true})
}

// 🔍 GET /payments/:orderId/verify
func (ctrl *PaymentController) Verify(c *fiber.Ctx) error {
	orderID := c.Params("orderId")

	resp, err := ctrl.Checkout.VerifyPayment(c.Context(), orderID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "Estado del pago", resp)
}
