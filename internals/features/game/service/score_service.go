package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/game/dto"
	"github.com/presbond/congreso-back/internals/features/game/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

const leaderboardSize = 10

type ScoreService struct {
	DB *gorm.DB
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{DB: db}
}

type SubmitResult struct {
	Message     string             `json:"message"`
	Score       *dto.ScoreResponse `json:"score,omitempty"`
	CurrentBest *dto.ScoreResponse `json:"current_best,omitempty"`
	NewScore    int                `json:"new_score,omitempty"`
}

// SubmitScore guarda sólo el mejor puntaje por usuario: si el nuevo valor no
// supera la marca actual, la fila no se toca.
func (s *ScoreService) SubmitScore(userID int64, value int) (*SubmitResult, error) {
	if userID < 1 {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "No autenticado")
	}

	var best model.GameScoreModel
	err := s.DB.Where("user_id = ?", userID).Order("score DESC").First(&best).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := model.GameScoreModel{UserID: userID, Score: value}
		if cerr := s.DB.Create(&record).Error; cerr != nil {
			return nil, cerr
		}
		return &SubmitResult{
			Message: "¡Primer puntaje guardado!",
			Score:   projectScore(&record),
		}, nil
	case err != nil:
		return nil, err
	}

	if value > best.Score {
		if uerr := s.DB.Model(&best).Update("score", value).Error; uerr != nil {
			return nil, uerr
		}
		best.Score = value
		return &SubmitResult{
			Message: "¡Nuevo récord personal!",
			Score:   projectScore(&best),
		}, nil
	}

	return &SubmitResult{
		Message:     "El puntaje no supera tu mejor marca actual",
		CurrentBest: projectScore(&best),
		NewScore:    value,
	}, nil
}

func projectScore(m *model.GameScoreModel) *dto.ScoreResponse {
	return &dto.ScoreResponse{
		GameScoreID: m.GameScoreID,
		Score:       m.Score,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
	}
}

func (s *ScoreService) Leaderboard() ([]dto.LeaderboardEntry, error) {
	var scores []model.GameScoreModel
	if err := s.DB.Order("score DESC").Limit(leaderboardSize).Find(&scores).Error; err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(scores))
	for _, sc := range scores {
		entry := dto.LeaderboardEntry{
			ID:        sc.GameScoreID,
			Value:     sc.Score,
			UserID:    sc.UserID,
			CreatedAt: sc.CreatedAt,
		}
		var user userModel.UserModel
		if err := s.DB.Select("user_id", "name_user", "email").
			First(&user, "user_id = ?", sc.UserID).Error; err == nil {
			entry.NameUser = user.NameUser
			entry.Email = user.Email
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *ScoreService) UserBest(userID int64) (*dto.ScoreResponse, error) {
	var best model.GameScoreModel
	err := s.DB.Where("user_id = ?", userID).Order("score DESC").First(&best).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return projectScore(&best), nil
}
