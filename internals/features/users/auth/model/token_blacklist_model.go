package model

import "time"

// TokenBlacklistModel: tokens revocados por logout. El middleware de auth
// consulta esta tabla en cada request; el scheduler de limpieza borra los
// vencidos.
type TokenBlacklistModel struct {
	TokenBlacklistID int64     `gorm:"column:token_blacklist_id;primaryKey;autoIncrement" json:"token_blacklist_id"`
	Token            string    `gorm:"column:token;type:text;not null;index" json:"-"`
	ExpiredAt        time.Time `gorm:"column:expired_at;not null" json:"expired_at"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}
