package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	adminController "github.com/presbond/congreso-back/internals/features/admin/controller"
	attendanceController "github.com/presbond/congreso-back/internals/features/attendance/controller"
	financeController "github.com/presbond/congreso-back/internals/features/finance/controller"
)

func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := adminController.NewAdminController(db)

	users := admin.Group("/users")
	users.Get("/", ctrl.ListUsers)
	users.Get("/filter-options", ctrl.FilterOptions)
	users.Post("/generate-badges", ctrl.GenerateBadges)
	users.Patch("/activation-bulk", ctrl.SetActivationBulk)
	users.Patch("/:id/activation", ctrl.SetActivation)
	users.Delete("/:id", ctrl.DeleteUser)
}

func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := attendanceController.NewAttendanceController(db)

	attendance := admin.Group("/attendance")
	attendance.Post("/scan-qr", ctrl.ScanQr)
	attendance.Get("/workshops", ctrl.ListWorkshops)
	attendance.Get("/workshops/:id/users-by-type", ctrl.ListUsersByType)
}

func FinanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := financeController.NewFinanceController(db)

	finance := admin.Group("/finance")
	finance.Get("/summary", ctrl.Summary)
	finance.Get("/categories", ctrl.ListCategories)
	finance.Post("/categories", ctrl.CreateCategory)
	finance.Put("/categories/:id", ctrl.UpdateCategory)
	finance.Delete("/categories/:id", ctrl.DeleteCategory)
	finance.Get("/movements", ctrl.ListMovements)
	finance.Post("/movements", ctrl.CreateMovement)
	finance.Put("/movements/:id", ctrl.UpdateMovement)
	finance.Delete("/movements/:id", ctrl.DeleteMovement)
}
