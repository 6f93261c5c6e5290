package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentService "github.com/presbond/congreso-back/internals/features/payments/service"
	"github.com/presbond/congreso-back/internals/features/users/auth/service"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// 👤 GET /auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID := helper.GetUserIDFromLocals(c)
	if userID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "No autenticado")
	}

	var user userModel.UserModel
	if err := ac.DB.Preload("TypeUser").First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Usuario no encontrado")
	}

	return helper.Success(c, "Perfil", fiber.Map{
		"user":        user,
		"type_name":   user.TypeName(),
		"has_payment": paymentService.IsPaymentEligible(ac.DB, &user),
	})
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	return service.Register(ac.DB, c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	return service.LoginGoogle(ac.DB, c)
}

func (ac *AuthController) VerifyCode(c *fiber.Ctx) error {
	return service.VerifyCode(ac.DB, c)
}

func (ac *AuthController) ResendCode(c *fiber.Ctx) error {
	return service.ResendCode(ac.DB, c)
}

func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	return service.ForgotPassword(ac.DB, c)
}

func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	return service.ResetPassword(ac.DB, c)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	return service.RefreshToken(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, c)
}
