package model

import "time"

// Tipos de token de verificación
const (
	TokenTypeVerifyEmail   = "email_verification"
	TokenTypePasswordReset = "reset_password"
	TokenTypeRefresh       = "refresh_token"
)

// VerificationTokenModel guarda códigos de 6 dígitos (verificación de correo
// y reseteo de contraseña) y el hash de los refresh tokens. El envío del
// correo es un colaborador externo; aquí sólo se persiste y valida el código.
type VerificationTokenModel struct {
	VerificationTokenID int64      `gorm:"column:verification_token_id;primaryKey;autoIncrement" json:"verification_token_id"`
	UserID              int64      `gorm:"column:user_id;not null;index" json:"user_id"`
	Code                string     `gorm:"column:code;size:128;not null;index" json:"-"`
	TokenType           string     `gorm:"column:token_type;size:30;not null;default:'email_verification'" json:"token_type"`
	Attempts            int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Used                bool       `gorm:"column:used;not null;default:false" json:"used"`
	UsedAt              *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	ExpiresAt           time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VerificationTokenModel) TableName() string {
	return "verification_token"
}

func (t *VerificationTokenModel) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
