package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/game/dto"
	"github.com/presbond/congreso-back/internals/features/game/service"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

var validate = validator.New()

type ScoreController struct {
	Service *service.ScoreService
}

func NewScoreController(db *gorm.DB) *ScoreController {
	return &ScoreController{Service: service.NewScoreService(db)}
}

// 🎮 POST /game/scores
func (ctrl *ScoreController) Submit(c *fiber.Ctx) error {
	userID := helper.GetUserIDFromLocals(c)
	if userID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "No autenticado")
	}

	var req dto.CreateScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Service.SubmitScore(userID, req.Value)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(result)
}

// 🏆 GET /game/scores/leaderboard
func (ctrl *ScoreController) Leaderboard(c *fiber.Ctx) error {
	entries, err := ctrl.Service.Leaderboard()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo obtener el leaderboard")
	}
	return c.JSON(entries)
}

// 🥇 GET /game/scores/me
func (ctrl *ScoreController) MyBest(c *fiber.Ctx) error {
	userID := helper.GetUserIDFromLocals(c)
	if userID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "No autenticado")
	}

	best, err := ctrl.Service.UserBest(userID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo obtener el puntaje")
	}
	if best == nil {
		return c.JSON(fiber.Map{"score": nil})
	}
	return c.JSON(best)
}
