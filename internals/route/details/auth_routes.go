package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "github.com/presbond/congreso-back/internals/features/users/auth/controller"
	middlewares "github.com/presbond/congreso-back/internals/middlewares"
	authMW "github.com/presbond/congreso-back/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := app.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	auth.Post("/verify-code", ctrl.VerifyCode)
	auth.Post("/resend-code", ctrl.ResendCode)
	auth.Post("/forgot-password", ctrl.ForgotPassword)
	auth.Post("/reset-password", ctrl.ResetPassword)
	auth.Post("/refresh-token", ctrl.RefreshToken)

	auth.Get("/me", authMW.AuthMiddleware(db), ctrl.Me)
	auth.Post("/logout", authMW.AuthMiddleware(db), ctrl.Logout)
}
