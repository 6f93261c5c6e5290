package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	routeDetails "github.com/presbond/congreso-back/internals/route/details"
	authMW "github.com/presbond/congreso-back/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC / USER =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	log.Println("[INFO] Setting up WorkshopRoutes...")
	routeDetails.WorkshopRoutes(app, db)

	log.Println("[INFO] Setting up PaymentRoutes...")
	routeDetails.PaymentRoutes(app, db)

	log.Println("[INFO] Setting up GameRoutes...")
	routeDetails.GameRoutes(app, db)

	log.Println("[INFO] Setting up ScheduleRoutes...")
	routeDetails.SchedulePublicRoutes(app, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/admin",
		authMW.AuthMiddleware(db),
		authMW.OnlyAdmin(),
	)

	routeDetails.AdminRoutes(admin, db)
	routeDetails.AttendanceAdminRoutes(admin, db)
	routeDetails.FinanceAdminRoutes(admin, db)
	routeDetails.ScheduleAdminRoutes(admin, db)
}
