package dto

// RegisterRequest: body de POST /auth/register. Los campos académicos sólo
// aplican a alumnos/docentes UTTECAM; el servicio decide qué persiste.
type RegisterRequest struct {
	NameUser           string `json:"name_user" validate:"required,min=2,max=100"`
	PaternalSurname    string `json:"paternal_surname" validate:"required,max=100"`
	MaternalSurname    string `json:"maternal_surname" validate:"omitempty,max=100"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=8,max=72"`
	Phone              string `json:"phone" validate:"omitempty,max=20"`
	TypeUserID         int64  `json:"type_user_id" validate:"required,min=1,max=4"`
	Provenance         string `json:"provenance" validate:"omitempty,max=150"`
	Matricula          string `json:"matricula" validate:"omitempty,max=30"`
	EducationalProgram string `json:"educational_program" validate:"omitempty,max=150"`
	Grade              string `json:"grade" validate:"omitempty,max=10"`
	GroupUser          string `json:"group_user" validate:"omitempty,max=10"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// VerifyCodeRequest sirve para ambos flujos: activación de cuenta y
// validación previa al reseteo de contraseña.
type VerifyCodeRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Code      string `json:"code" validate:"required,len=6,numeric"`
	TokenType string `json:"token_type" validate:"omitempty,oneof=email_verification reset_password"`
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginUser es el resumen de usuario que viaja en la respuesta de login.
type LoginUser struct {
	UserID       int64  `json:"user_id"`
	Email        string `json:"email"`
	NameUser     string `json:"name_user,omitempty"`
	TypeUserID   *int64 `json:"type_user_id"`
	TypeUserName string `json:"type_user_name,omitempty"`
}

type LoginResponse struct {
	Message      string    `json:"message"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         LoginUser `json:"user"`

	// true cuando la cuenta sigue inactiva y se reenvió un código
	RequireVerification bool `json:"require_verification,omitempty"`
}
