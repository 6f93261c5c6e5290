package dto

import "time"

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type MovementRequest struct {
	MovementType      string `json:"movement_type" validate:"required,oneof=ingreso egreso"`
	Amount            int64  `json:"amount" validate:"min=0"`
	Description       string `json:"description" validate:"omitempty,max=500"`
	PaymentMethod     string `json:"payment_method" validate:"required,oneof=efectivo tarjeta"`
	FinanceCategoryID int64  `json:"finance_category_id" validate:"required,min=1"`
	UserID            *int64 `json:"user_id"`
}

type MovementUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MovementResponse struct {
	ID                int64             `json:"id"`
	MovementType      string            `json:"movement_type"`
	Amount            int64             `json:"amount"`
	Description       string            `json:"description,omitempty"`
	PaymentMethod     string            `json:"payment_method"`
	FinanceCategoryID int64             `json:"finance_category_id"`
	Category          *CategoryResponse `json:"category,omitempty"`
	User              *MovementUser     `json:"user,omitempty"`
	MovementDate      time.Time         `json:"movement_date"`
}

// SummaryResponse: ingreso del evento (usuarios con pago x precio del
// boleto) más movimientos manuales.
type SummaryResponse struct {
	PaidUsersCount int64 `json:"paidUsersCount"`
	TicketPrice    int64 `json:"ticketPrice"`
	TicketsRevenue int64 `json:"ticketsRevenue"`
	TotalIncome    int64 `json:"totalIncome"`
	TotalExpense   int64 `json:"totalExpense"`
	Balance        int64 `json:"balance"`
}
