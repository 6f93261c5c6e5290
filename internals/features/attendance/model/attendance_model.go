package model

import "time"

// QrCodeModel liga un token escaneado con un taller: es el "alcance" de una
// asistencia. Se crea perezosamente la primera vez que se escanea ese token
// para ese taller.
type QrCodeModel struct {
	QrCodeID   int64     `gorm:"column:qr_code_id;primaryKey;autoIncrement" json:"qr_code_id"`
	Token      string    `gorm:"column:token;size:255;not null;index:idx_qr_code_token_workshop,unique" json:"token"`
	WorkshopID int64     `gorm:"column:workshop_id;not null;index:idx_qr_code_token_workshop,unique" json:"workshop_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (QrCodeModel) TableName() string {
	return "qr_code"
}

// AttendanceModel: un check-in de usuario. qr_code_id NULL = asistencia
// general (sin taller). La idempotencia del escaneo se resuelve buscando por
// (user_id, qr_code_id) antes de crear.
type AttendanceModel struct {
	AttendanceID int64     `gorm:"column:attendance_id;primaryKey;autoIncrement" json:"attendance_id"`
	UserID       int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	QrCodeID     *int64    `gorm:"column:qr_code_id;index" json:"qr_code_id,omitempty"`
	DateTime     time.Time `gorm:"column:date_time;autoCreateTime" json:"date_time"`
}

func (AttendanceModel) TableName() string {
	return "attendance"
}
