package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/configs"
	authDTO "github.com/presbond/congreso-back/internals/features/users/auth/dto"
	authModel "github.com/presbond/congreso-back/internals/features/users/auth/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

/* ==========================
   Const & helpers
========================== */

const (
	verificationTTL = 10 * time.Minute
	resendCooldown  = 60 * time.Second
	maxAttempts     = 5

	bcryptCost = 12
)

var validate = validator.New()

// generateCode: código de verificación de 6 dígitos (crypto/rand).
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// rand.Reader no falla en la práctica; este camino sólo evita el pánico
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// refreshHashHex: los refresh tokens se guardan como HMAC-SHA256, nunca en claro.
func refreshHashHex(token string) string {
	m := hmac.New(sha256.New, []byte(configs.JWTRefreshSecret))
	_, _ = m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

func strptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// createVerificationCode invalida los códigos pendientes del mismo tipo y
// emite uno nuevo. El envío de correo es un colaborador externo: aquí el
// código sólo se persiste y se deja rastro en el log.
func createVerificationCode(db *gorm.DB, userID int64, tokenType string) (string, error) {
	if err := db.Model(&authModel.VerificationTokenModel{}).
		Where("user_id = ? AND token_type = ? AND used = FALSE", userID, tokenType).
		Update("used", true).Error; err != nil {
		return "", err
	}

	code := generateCode()
	if err := db.Create(&authModel.VerificationTokenModel{
		UserID:    userID,
		Code:      code,
		TokenType: tokenType,
		ExpiresAt: time.Now().Add(verificationTTL),
	}).Error; err != nil {
		return "", err
	}

	log.Printf("[INFO] Código %s generado para user_id=%d (%s)", tokenType, userID, codeForLog(code))
	return code, nil
}

// codeForLog enmascara el código salvo los dos últimos dígitos.
func codeForLog(code string) string {
	if len(code) < 2 {
		return "****"
	}
	return "****" + code[len(code)-2:]
}

func incrementAttempts(db *gorm.DB, userID int64, tokenType string) {
	var latest authModel.VerificationTokenModel
	if err := db.
		Where("user_id = ? AND token_type = ? AND used = FALSE AND created_at >= ?",
			userID, tokenType, time.Now().Add(-verificationTTL)).
		Order("created_at DESC").
		First(&latest).Error; err != nil {
		return
	}
	_ = db.Model(&latest).Update("attempts", gorm.Expr("attempts + 1")).Error
}

/* ==========================
   REGISTER
========================== */

const (
	typeStudent      = 1
	typeCollaborator = 2
	typeExternal     = 3
	typeSpeaker      = 4
)

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	email := normalizeEmail(req.Email)
	provenance := strings.TrimSpace(req.Provenance)
	provLower := strings.ToLower(provenance)

	// Alumno o docente UTTECAM requieren matrícula y programa educativo
	isUttecamStudent := req.TypeUserID == typeStudent && provLower == "uttecam"
	isUttecamCollaborator := req.TypeUserID == typeCollaborator && provLower == "uttecam"
	if (isUttecamStudent || isUttecamCollaborator) &&
		(strings.TrimSpace(req.Matricula) == "" || strings.TrimSpace(req.EducationalProgram) == "") {
		return helper.Error(c, fiber.StatusBadRequest, "Faltan datos académicos")
	}

	var existing userModel.UserModel
	err := db.Select("user_id", "status", "email").First(&existing, "email = ?", email).Error
	if err == nil {
		if existing.Status == userModel.StatusActive {
			return helper.Error(c, fiber.StatusConflict, "El correo ya está registrado y activo")
		}
		// Registro pendiente: reemitir código en lugar de duplicar la cuenta
		if _, cerr := createVerificationCode(db, existing.UserID, authModel.TokenTypeVerifyEmail); cerr != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Error al generar código de verificación")
		}
		return helper.Success(c, "Este correo ya tiene un registro pendiente. Te reenviamos un nuevo código de verificación.", fiber.Map{
			"user":           fiber.Map{"user_id": existing.UserID},
			"already_exists": true,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error al procesar la contraseña")
	}

	user := userModel.UserModel{
		NameUser:        strings.TrimSpace(req.NameUser),
		PaternalSurname: strings.TrimSpace(req.PaternalSurname),
		MaternalSurname: strings.TrimSpace(req.MaternalSurname),
		Email:           email,
		Password:        string(hashed),
		Phone:           strptr(req.Phone),
		Status:          userModel.StatusInactive,
		TypeUserID:      &req.TypeUserID,
	}

	// Campos académicos según tipo y procedencia
	switch req.TypeUserID {
	case typeSpeaker:
		// Ponente: sin campos académicos
	case typeExternal:
		ext := "externo"
		user.Provenance = &ext
	default:
		user.Provenance = strptr(provenance)
		if provLower == "uttecam" {
			user.Matricula = strptr(req.Matricula)
			user.EducationalProgram = strptr(req.EducationalProgram)
			if req.TypeUserID == typeStudent {
				user.Grade = strptr(helper.NormalizeGrade(req.Grade))
				user.GroupUser = strptr(helper.NormalizeGroup(req.GroupUser))
			}
		}
	}

	if err := db.Create(&user).Error; err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
			return helper.Error(c, fiber.StatusConflict, "El correo ya está registrado.")
		}
		log.Println("[ERROR] Registro falló:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Error al registrar usuario")
	}

	if _, err := createVerificationCode(db, user.UserID, authModel.TokenTypeVerifyEmail); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error al generar código de verificación")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Usuario creado. Revisa tu correo para el código.", fiber.Map{
		"user": fiber.Map{"user_id": user.UserID, "name_user": user.NameUser},
	})
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	email := normalizeEmail(req.Email)
	var user userModel.UserModel
	if err := db.Preload("TypeUser").First(&user, "email = ?", email).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Correo o contraseña incorrecta")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Correo o contraseña incorrecta")
	}

	// Cuenta sin verificar: reemitir código en vez de entregar tokens
	if user.Status != userModel.StatusActive {
		if _, err := createVerificationCode(db, user.UserID, authModel.TokenTypeVerifyEmail); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Error al generar código de verificación")
		}
		return helper.Success(c, "Tu cuenta está inactiva. Revisa tu correo para el código de verificación.", fiber.Map{
			"require_verification": true,
			"user": fiber.Map{
				"user_id":   user.UserID,
				"email":     user.Email,
				"name_user": user.NameUser,
			},
		})
	}

	access, refresh, err := IssueTokenPair(db, &user)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	setRefreshCookie(c, refresh, nowUTC())

	return helper.Success(c, "Login exitoso", authDTO.LoginResponse{
		Message:      "Login exitoso",
		AccessToken:  access,
		RefreshToken: refresh,
		User: authDTO.LoginUser{
			UserID:       user.UserID,
			Email:        user.Email,
			NameUser:     user.NameUser,
			TypeUserID:   user.TypeUserID,
			TypeUserName: user.TypeName(),
		},
	})
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if strings.TrimSpace(req.IDToken) == "" {
		return helper.Error(c, fiber.StatusBadRequest, "id_token requerido")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Token de Google inválido")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo decodificar el token de Google")
	}
	email, name, googleID := normalizeEmail(claimSet.Email), claimSet.Name, claimSet.Sub

	var user userModel.UserModel
	err = db.Preload("TypeUser").First(&user, "google_id = ?", googleID).Error
	if err != nil {
		// primera vez con Google: vincular por correo o crear cuenta nueva
		err = db.Preload("TypeUser").First(&user, "email = ?", email).Error
		if err == nil {
			if uerr := db.Model(&user).Update("google_id", googleID).Error; uerr != nil {
				return helper.Error(c, fiber.StatusInternalServerError, "No se pudo vincular la cuenta de Google")
			}
		} else {
			dummy, herr := bcrypt.GenerateFromPassword([]byte(generateCode()+googleID), bcryptCost)
			if herr != nil {
				return helper.Error(c, fiber.StatusInternalServerError, "Error al crear la cuenta")
			}
			extType := int64(typeExternal)
			user = userModel.UserModel{
				NameUser:   name,
				Email:      email,
				Password:   string(dummy),
				Status:     userModel.StatusActive,
				TypeUserID: &extType,
				GoogleID:   &googleID,
			}
			if cerr := db.Create(&user).Error; cerr != nil {
				low := strings.ToLower(cerr.Error())
				if strings.Contains(low, "duplicate key") || strings.Contains(low, "unique") {
					return helper.Error(c, fiber.StatusConflict, "El correo ya está registrado")
				}
				return helper.Error(c, fiber.StatusInternalServerError, "Error al crear la cuenta")
			}
		}
	}

	if user.Status == userModel.StatusSuspended || user.Status == userModel.StatusDeleted {
		return helper.Error(c, fiber.StatusForbidden, "Cuenta deshabilitada")
	}
	// Google verifica el correo por nosotros
	if user.Status != userModel.StatusActive {
		if uerr := db.Model(&user).Update("status", userModel.StatusActive).Error; uerr != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "No se pudo activar la cuenta")
		}
		user.Status = userModel.StatusActive
	}

	access, refresh, err := IssueTokenPair(db, &user)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	setRefreshCookie(c, refresh, nowUTC())

	return helper.Success(c, "Login exitoso", authDTO.LoginResponse{
		Message:      "Login exitoso",
		AccessToken:  access,
		RefreshToken: refresh,
		User: authDTO.LoginUser{
			UserID:       user.UserID,
			Email:        user.Email,
			NameUser:     user.NameUser,
			TypeUserID:   user.TypeUserID,
			TypeUserName: user.TypeName(),
		},
	})
}

/* ==========================
   VERIFY CODE
========================== */

func VerifyCode(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Código de verificación inválido o expirado")
	}

	email := normalizeEmail(req.Email)
	tokenType := authModel.TokenTypeVerifyEmail
	if req.TokenType == authModel.TokenTypePasswordReset {
		tokenType = authModel.TokenTypePasswordReset
	}

	var user userModel.UserModel
	if err := db.Preload("TypeUser").First(&user, "email = ?", email).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Código de verificación inválido o expirado")
	}

	var token authModel.VerificationTokenModel
	if err := db.
		Where("user_id = ? AND code = ? AND token_type = ? AND used = FALSE AND expires_at > ?",
			user.UserID, req.Code, tokenType, time.Now()).
		Order("created_at DESC").
		First(&token).Error; err != nil {
		incrementAttempts(db, user.UserID, tokenType)
		return helper.Error(c, fiber.StatusUnauthorized, "Código inválido o expirado. Solicita un nuevo código.")
	}

	if token.Attempts >= maxAttempts {
		return helper.Error(c, fiber.StatusUnauthorized, "Demasiados intentos. Solicita un nuevo código.")
	}

	if tokenType == authModel.TokenTypePasswordReset {
		// sólo valida; el código se consume en ResetPassword
		_ = db.Model(&token).Update("attempts", gorm.Expr("attempts + 1")).Error
		return helper.Success(c, "Código válido para restablecer contraseña", fiber.Map{
			"valid":   true,
			"user_id": user.UserID,
		})
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userModel.UserModel{}).
			Where("user_id = ?", user.UserID).
			Update("status", userModel.StatusActive).Error; err != nil {
			return err
		}
		if err := tx.Model(&token).
			Updates(map[string]interface{}{"used": true, "used_at": now, "attempts": token.Attempts + 1}).Error; err != nil {
			return err
		}
		return tx.Model(&authModel.VerificationTokenModel{}).
			Where("user_id = ? AND token_type = ? AND used = FALSE AND verification_token_id <> ?",
				user.UserID, authModel.TokenTypeVerifyEmail, token.VerificationTokenID).
			Update("used", true).Error
	})
	if err != nil {
		log.Println("[ERROR] Activación de cuenta falló:", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Error al activar la cuenta")
	}
	user.Status = userModel.StatusActive

	// Cuenta recién verificada: entra directo con su par de tokens
	access, refresh, err := IssueTokenPair(db, &user)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	setRefreshCookie(c, refresh, nowUTC())

	return helper.Success(c, "Usuario verificado exitosamente", fiber.Map{
		"verified":      true,
		"user_id":       user.UserID,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

/* ==========================
   RESEND CODE
========================== */

func ResendCode(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.ResendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Email requerido")
	}

	email := normalizeEmail(req.Email)
	var user userModel.UserModel
	if err := db.Select("user_id").First(&user, "email = ?", email).Error; err != nil {
		// no revelar si el correo existe
		return helper.Success(c, "Código de verificación reenviado exitosamente", nil)
	}

	var recent authModel.VerificationTokenModel
	if err := db.
		Where("user_id = ? AND token_type = ? AND used = FALSE AND created_at >= ?",
			user.UserID, authModel.TokenTypeVerifyEmail, time.Now().Add(-resendCooldown)).
		Order("created_at DESC").
		First(&recent).Error; err == nil {
		return helper.Error(c, fiber.StatusTooManyRequests, "Espera unos segundos antes de pedir otro código.")
	}

	if _, err := createVerificationCode(db, user.UserID, authModel.TokenTypeVerifyEmail); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error al generar código de verificación")
	}

	return helper.Success(c, "Código de verificación reenviado exitosamente", nil)
}

/* ==========================
   FORGOT / RESET PASSWORD
========================== */

func ForgotPassword(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	email := normalizeEmail(req.Email)
	var user userModel.UserModel
	err := db.Select("user_id", "status").First(&user, "email = ?", email).Error
	if err != nil || user.Status != userModel.StatusActive {
		// no revelar si el correo existe o está activo
		return helper.Success(c, "Si el email existe y está activo, recibirás un código de recuperación", nil)
	}

	if _, err := createVerificationCode(db, user.UserID, authModel.TokenTypePasswordReset); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error al generar código de recuperación")
	}

	return helper.Success(c, "Código de recuperación enviado, revisa tu correo", nil)
}

func ResetPassword(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	email := normalizeEmail(req.Email)
	var user userModel.UserModel
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Usuario no encontrado")
	}

	var token authModel.VerificationTokenModel
	if err := db.
		Where("user_id = ? AND code = ? AND token_type = ? AND used = FALSE AND expires_at > ?",
			user.UserID, req.Code, authModel.TokenTypePasswordReset, time.Now()).
		Order("created_at DESC").
		First(&token).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Código inválido o expirado")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error al procesar la contraseña")
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userModel.UserModel{}).
			Where("user_id = ?", user.UserID).
			Update("password", string(hashed)).Error; err != nil {
			return err
		}
		if err := tx.Model(&token).
			Updates(map[string]interface{}{"used": true, "used_at": now}).Error; err != nil {
			return err
		}
		// invalida cualquier otro código de reset pendiente
		return tx.Model(&authModel.VerificationTokenModel{}).
			Where("user_id = ? AND token_type = ? AND used = FALSE AND verification_token_id <> ?",
				user.UserID, authModel.TokenTypePasswordReset, token.VerificationTokenID).
			Update("used", true).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error al actualizar la contraseña")
	}

	return helper.Success(c, "Contraseña actualizada correctamente", nil)
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "No autenticado")
	}

	// el access entra a la blacklist hasta su expiración natural
	if err := db.Create(&authModel.TokenBlacklistModel{
		Token:     raw,
		ExpiredAt: time.Now().Add(accessTTLDefault),
	}).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Error al cerrar sesión")
	}

	// el refresh (si viene) se revoca de inmediato
	if refresh := helper.GetRefreshTokenFromCookie(c); refresh != "" {
		now := time.Now()
		_ = db.Model(&authModel.VerificationTokenModel{}).
			Where("code = ? AND token_type = ? AND used = FALSE", refreshHashHex(refresh), authModel.TokenTypeRefresh).
			Updates(map[string]interface{}{"used": true, "used_at": now}).Error
	}
	clearRefreshCookie(c)

	return helper.Success(c, "Sesión cerrada", nil)
}
