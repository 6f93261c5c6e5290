package dto

// AdminUserRow es la fila aplanada que consume la tabla del panel.
type AdminUserRow struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              *string `json:"phone,omitempty"`
	Code               string  `json:"code"`
	Provenance         *string `json:"provenance,omitempty"`
	EducationalProgram *string `json:"educational_program,omitempty"`
	Grade              string  `json:"grade,omitempty"`
	Group              string  `json:"group,omitempty"`
	Type               string  `json:"type"`
	IsActive           bool    `json:"isActive"`
	EventEnabled       bool    `json:"eventEnabled"`
	StatusEvent        bool    `json:"status_event"`
	IsBadgePrinted     bool    `json:"isBadgePrinted"`
	PaymentStatus      string  `json:"paymentStatus"`
}

type ListUsersResponse struct {
	Total       int64          `json:"total"`
	TotalFiltro int64          `json:"total_filtro"`
	Page        int            `json:"page"`
	PageSize    int            `json:"pageSize"`
	Data        []AdminUserRow `json:"data"`
}

type TypeOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type FilterOptions struct {
	Grades        []string     `json:"grades"`
	Groups        []string     `json:"groups"`
	Types         []TypeOption `json:"types"`
	Statuses      []string     `json:"statuses"`
	EventStatuses []bool       `json:"eventStatuses"`
}

// ActivationRequest: PATCH /admin/users/:id/activation.
// force salta la validación de pago; status_event permite fijar el flag
// sin tocar el status de la cuenta.
type ActivationRequest struct {
	Activate    bool   `json:"activate"`
	Force       bool   `json:"force"`
	Reason      string `json:"reason"`
	StatusEvent *bool  `json:"status_event"`
}

type BulkActivationRequest struct {
	IDs         []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
	Activate    bool    `json:"activate"`
	Force       bool    `json:"force"`
	Reason      string  `json:"reason"`
	StatusEvent *bool   `json:"status_event"`
}

type ActivationResult struct {
	ID            int64  `json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Status        string `json:"status,omitempty"`
	EventEnabled  bool   `json:"eventEnabled"`
	StatusEvent   bool   `json:"status_event"`
	PaymentStatus string `json:"paymentStatus"`
	Message       string `json:"message,omitempty"`
}

type GenerateBadgesRequest struct {
	IDs         []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
	MarkPrinted *bool   `json:"markPrinted"`
}
