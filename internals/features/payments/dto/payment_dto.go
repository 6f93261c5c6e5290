package dto

// Alias del catálogo de precios (resueltos en configs)
const (
	PriceAliasCongreso  = "CONGRESO"
	PriceAliasPaquetes  = "PAQUETES"
	PriceAliasSouvenirs = "SOUVENIRS"
)

type CheckoutItem struct {
	Price    string `json:"price" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// CreateCheckoutRequest: body de POST /payments/checkout.
type CreateCheckoutRequest struct {
	Items         []CheckoutItem    `json:"items" validate:"required,min=1,dive"`
	CustomerEmail string            `json:"customerEmail" validate:"omitempty,email"`
	Metadata      map[string]string `json:"metadata"`
}

type CheckoutResponse struct {
	OrderID     string `json:"orderId"`
	SnapToken   string `json:"snapToken"`
	RedirectURL string `json:"redirectUrl"`
}

// VerifyPaymentResponse: para la pantalla de retorno del front.
type VerifyPaymentResponse struct {
	IsComplete    bool   `json:"isComplete"`
	PaymentStatus string `json:"paymentStatus"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	OrderID       string `json:"orderId"`
	UserID        *int64 `json:"userId,omitempty"`
}
