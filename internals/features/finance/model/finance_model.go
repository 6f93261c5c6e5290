package model

import "time"

const (
	MovementIncome  = "ingreso"
	MovementExpense = "egreso"

	PaymentMethodCash = "efectivo"
	PaymentMethodCard = "tarjeta"
)

type FinanceCategoryModel struct {
	FinanceCategoryID int64     `gorm:"column:finance_category_id;primaryKey;autoIncrement" json:"finance_category_id"`
	Name              string    `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Description       string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FinanceCategoryModel) TableName() string {
	return "finance_category"
}

// FinanceMovementModel: movimientos manuales (ingresos/egresos) aparte de los
// pagos de la pasarela. amount en centavos.
type FinanceMovementModel struct {
	FinanceMovementID int64     `gorm:"column:finance_movement_id;primaryKey;autoIncrement" json:"finance_movement_id"`
	MovementType      string    `gorm:"column:movement_type;size:10;not null" json:"movement_type"`
	Amount            int64     `gorm:"column:amount;not null" json:"amount"`
	Description       string    `gorm:"column:description;type:text" json:"description"`
	PaymentMethod     string    `gorm:"column:payment_method;size:20;not null;default:'efectivo'" json:"payment_method"`
	FinanceCategoryID *int64    `gorm:"column:finance_category_id;index" json:"finance_category_id,omitempty"`
	UserID            *int64    `gorm:"column:user_id;index" json:"user_id,omitempty"`
	MovementDate      time.Time `gorm:"column:movement_date;not null" json:"movement_date"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FinanceMovementModel) TableName() string {
	return "finance_movement"
}
