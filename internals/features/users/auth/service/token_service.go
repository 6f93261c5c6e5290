// internals/features/users/auth/service/token_service.go
package service

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/configs"
	authModel "github.com/presbond/congreso-back/internals/features/users/auth/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

const (
	accessTTLDefault  = time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET no está configurado")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET no está configurado")
	}
	return secret, nil
}

// roleFromUser deriva el claim de rol del name_type crudo; sin tipo
// asignado el rol es "user".
func roleFromUser(u *userModel.UserModel) string {
	var name string
	if u.TypeUser != nil {
		name = strings.ToLower(strings.TrimSpace(u.TypeUser.NameType))
	}
	if name == "admin" || name == "administrador" {
		return "admin"
	}
	if name == "" {
		return "user"
	}
	return name
}

func buildAccessClaims(u *userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": u.UserID,
		"email":   u.Email,
		"role":    roleFromUser(u),
		"iat":     now.Unix(),
		"exp":     now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID int64, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"refresh": true,
		// jti distingue sesiones emitidas en el mismo segundo
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

// IssueTokenPair firma access + refresh y persiste el refresh en
// verification_token (token_type=refresh_token) para poder revocarlo.
func IssueTokenPair(db *gorm.DB, user *userModel.UserModel) (access string, refresh string, err error) {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return "", "", err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return "", "", err
	}

	now := nowUTC()
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, now)).SignedString([]byte(jwtSecret))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "No se pudo firmar el access token")
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.UserID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "No se pudo firmar el refresh token")
	}

	if err := db.Create(&authModel.VerificationTokenModel{
		UserID:    user.UserID,
		Code:      refreshHashHex(refresh),
		TokenType: authModel.TokenTypeRefresh,
		ExpiresAt: now.Add(refreshTTLDefault),
	}).Error; err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el refresh token")
	}

	// conserva sólo las 2 sesiones más recientes por usuario
	pruneOldRefreshTokens(db, user.UserID)

	return access, refresh, nil
}

func pruneOldRefreshTokens(db *gorm.DB, userID int64) {
	var stale []int64
	if err := db.Model(&authModel.VerificationTokenModel{}).
		Where("user_id = ? AND token_type = ? AND used = FALSE AND expires_at > ?", userID, authModel.TokenTypeRefresh, nowUTC()).
		Order("created_at DESC").
		Offset(2).
		Pluck("verification_token_id", &stale).Error; err != nil || len(stale) == 0 {
		return
	}
	now := nowUTC()
	_ = db.Model(&authModel.VerificationTokenModel{}).
		Where("verification_token_id IN ?", stale).
		Updates(map[string]interface{}{"used": true, "used_at": now}).Error
}

// ========================== REFRESH TOKEN ==========================
// POST /auth/refresh
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	refreshRaw := helper.GetRefreshTokenFromCookie(c)
	if refreshRaw == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.BodyParser(&body)
		refreshRaw = strings.TrimSpace(body.RefreshToken)
	}
	if refreshRaw == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token no presente")
	}

	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	tok, err := jwt.Parse(refreshRaw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token inválido")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	uidF, _ := claims["user_id"].(float64)
	userID := int64(uidF)
	if userID <= 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token inválido")
	}

	// ROTATE: el hash debe existir sin usar y el viejo se marca consumido
	var record authModel.VerificationTokenModel
	if err := db.
		Where("user_id = ? AND code = ? AND token_type = ? AND used = FALSE AND expires_at > ?",
			userID, refreshHashHex(refreshRaw), authModel.TokenTypeRefresh, nowUTC()).
		Order("created_at DESC").
		First(&record).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Refresh token no reconocido")
	}
	now := nowUTC()
	if err := db.Model(&record).
		Updates(map[string]interface{}{"used": true, "used_at": now}).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo rotar el refresh token")
	}

	var user userModel.UserModel
	if err := db.Preload("TypeUser").First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Usuario no encontrado")
	}
	if user.Status != userModel.StatusActive {
		return helper.Error(c, fiber.StatusForbidden, "Cuenta inactiva")
	}

	newAccess, newRefresh, err := IssueTokenPair(db, &user)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	setRefreshCookie(c, newRefresh, now)

	return helper.Success(c, "Token renovado", fiber.Map{
		"access_token":  newAccess,
		"refresh_token": newRefresh,
	})
}

func setRefreshCookie(c *fiber.Ctx, refresh string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Expires:  now.Add(refreshTTLDefault),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}
