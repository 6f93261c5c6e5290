package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Estados que reporta la pasarela. "paid"/"complete" es la combinación que el
// resto del sistema considera pago aprobado.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusExpired = "expired"

	StatusComplete = "complete"
	StatusOpen     = "open"
	StatusCanceled = "canceled"
)

// PaymentModel representa la tabla payment. order_id es el id de sesión de la
// pasarela (único): el webhook hace upsert por esa llave, lo que vuelve el
// procesamiento de notificaciones idempotente.
type PaymentModel struct {
	PaymentID string `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	OrderID   string `gorm:"column:order_id;size:64;not null;uniqueIndex" json:"order_id"`
	UserID    *int64 `gorm:"column:user_id;index" json:"user_id,omitempty"`

	Status        string `gorm:"column:status;size:30;not null;default:'open'" json:"status"`
	PaymentStatus string `gorm:"column:payment_status;size:30;not null;default:'unpaid'" json:"payment_status"`

	// último estado crudo reportado por Midtrans (settlement, capture, ...)
	TransactionStatus string `gorm:"column:transaction_status;size:30" json:"transaction_status"`
	PaymentType       string `gorm:"column:payment_type;size:40" json:"payment_type"`

	AmountTotal   int64  `gorm:"column:amount_total;not null;default:0" json:"amount_total"`
	Currency      string `gorm:"column:currency;size:10;not null;default:'mxn'" json:"currency"`
	CustomerEmail string `gorm:"column:customer_email;size:255" json:"customer_email"`

	SnapToken   string `gorm:"column:snap_token;size:255" json:"-"`
	RedirectURL string `gorm:"column:redirect_url;size:512" json:"redirect_url,omitempty"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentModel) TableName() string {
	return "payment"
}

// Approved: la fila cuenta como pago aprobado para elegibilidad.
func (p *PaymentModel) Approved() bool {
	return strings.EqualFold(p.PaymentStatus, PaymentStatusPaid) &&
		strings.EqualFold(p.Status, StatusComplete)
}
