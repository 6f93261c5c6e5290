package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	scheduleController "github.com/presbond/congreso-back/internals/features/schedule/controller"
)

func SchedulePublicRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := scheduleController.NewScheduleController(db)

	schedule := app.Group("/schedule")
	schedule.Get("/", ctrl.List)
	schedule.Get("/upcoming/events", ctrl.UpcomingEvents)
	schedule.Get("/upcoming/workshops", ctrl.UpcomingWorkshops)
	schedule.Get("/workshops/:id", ctrl.ListByWorkshop)
	schedule.Get("/:id", ctrl.GetByID)
}

func ScheduleAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := scheduleController.NewScheduleController(db)

	schedule := admin.Group("/schedule")
	schedule.Post("/", ctrl.Create)
	schedule.Put("/:id", ctrl.Update)
	schedule.Delete("/:id", ctrl.Delete)
}
