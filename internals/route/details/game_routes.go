package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	gameController "github.com/presbond/congreso-back/internals/features/game/controller"
	authMW "github.com/presbond/congreso-back/internals/middlewares/auth"
)

func GameRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := gameController.NewScoreController(db)

	game := app.Group("/game/scores")
	game.Get("/leaderboard", ctrl.Leaderboard)
	game.Post("/", authMW.AuthMiddleware(db), ctrl.Submit)
	game.Get("/me", authMW.AuthMiddleware(db), ctrl.MyBest)
}
