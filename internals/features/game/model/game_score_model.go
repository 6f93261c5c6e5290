package model

import "time"

// GameScoreModel: mejor puntaje por usuario del minijuego del congreso.
type GameScoreModel struct {
	GameScoreID int64     `gorm:"column:game_score_id;primaryKey;autoIncrement" json:"game_score_id"`
	UserID      int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Score       int       `gorm:"column:score;not null" json:"score"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GameScoreModel) TableName() string {
	return "game_score"
}
