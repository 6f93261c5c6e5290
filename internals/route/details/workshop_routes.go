package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "github.com/presbond/congreso-back/internals/features/users/user/controller"
	workshopController "github.com/presbond/congreso-back/internals/features/workshops/controller"
	authMW "github.com/presbond/congreso-back/internals/middlewares/auth"
)

func WorkshopRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := workshopController.NewWorkshopController(db)
	userCtrl := userController.NewUserController(db)

	// Directorio público: con sesión opcional para calcular enrollment_status.
	workshops := app.Group("/workshops", authMW.OptionalAuthMiddleware(db))
	workshops.Get("/", ctrl.GetAll)
	workshops.Get("/public", ctrl.GetAll)
	workshops.Get("/available/list", ctrl.GetAvailable)
	workshops.Get("/available/public", ctrl.GetAvailable)
	workshops.Get("/public/:id", ctrl.GetByID)
	workshops.Get("/:id", ctrl.GetByID)

	users := app.Group("/users", authMW.AuthMiddleware(db))
	users.Get("/me", userCtrl.GetMe)
	users.Post("/me/workshop", userCtrl.EnrollMyWorkshop)
}
