package dto

import "time"

type CreateScoreRequest struct {
	Value int `json:"value" validate:"required,min=0"`
}

type ScoreResponse struct {
	GameScoreID int64     `json:"game_score_id"`
	Score       int       `json:"score"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	ID        int64     `json:"id"`
	Value     int       `json:"value"`
	Email     string    `json:"email,omitempty"`
	NameUser  string    `json:"name_user,omitempty"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
