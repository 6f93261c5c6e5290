package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/presbond/congreso-back/internals/configs"
	authModel "github.com/presbond/congreso-back/internals/features/users/auth/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.TypeUserModel{},
		&userModel.UserModel{},
		&authModel.VerificationTokenModel{},
		&authModel.TokenBlacklistModel{},
	))
	return db
}

func useTestSecrets(t *testing.T) {
	t.Helper()
	prevJWT, prevRefresh := configs.JWTSecret, configs.JWTRefreshSecret
	configs.JWTSecret = "test-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"
	t.Cleanup(func() {
		configs.JWTSecret = prevJWT
		configs.JWTRefreshSecret = prevRefresh
	})
}

func newAuthApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	app.Post("/auth/register", func(c *fiber.Ctx) error { return Register(db, c) })
	app.Post("/auth/login", func(c *fiber.Ctx) error { return Login(db, c) })
	app.Post("/auth/verify-code", func(c *fiber.Ctx) error { return VerifyCode(db, c) })
	app.Post("/auth/resend-code", func(c *fiber.Ctx) error { return ResendCode(db, c) })
	app.Post("/auth/forgot-password", func(c *fiber.Ctx) error { return ForgotPassword(db, c) })
	app.Post("/auth/reset-password", func(c *fiber.Ctx) error { return ResetPassword(db, c) })
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &decoded))
	}
	return resp, decoded
}

func registerPayload() map[string]interface{} {
	return map[string]interface{}{
		"name_user":           "María",
		"paternal_surname":    "López",
		"email":               "maria@example.com",
		"password":            "secreta123",
		"type_user_id":        1,
		"provenance":          "UTTECAM",
		"matricula":           "20230001",
		"educational_program": "TI",
		"grade":               "1°",
		"group_user":          "a",
	}
}

func TestRegisterCreatesInactiveUserWithCode(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	resp, body := postJSON(t, app, "/auth/register", registerPayload())
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)
	assert.Equal(t, userModel.StatusInactive, user.Status)
	require.NotNil(t, user.Grade)
	assert.Equal(t, "1", *user.Grade)
	require.NotNil(t, user.GroupUser)
	assert.Equal(t, "A", *user.GroupUser)
	assert.NotEqual(t, "secreta123", user.Password)

	var tokens int64
	require.NoError(t, db.Model(&authModel.VerificationTokenModel{}).
		Where("user_id = ? AND token_type = ?", user.UserID, authModel.TokenTypeVerifyEmail).
		Count(&tokens).Error)
	assert.EqualValues(t, 1, tokens)
}

func TestRegisterUttecamStudentRequiresAcademicData(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	payload := registerPayload()
	delete(payload, "matricula")

	resp, body := postJSON(t, app, "/auth/register", payload)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Faltan datos académicos", body["message"])
}

func TestRegisterExistingPendingReissuesCode(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	resp, _ := postJSON(t, app, "/auth/register", registerPayload())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/register", registerPayload())
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["already_exists"])

	// quedan una sola fila viva: las anteriores se invalidan
	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)
	var live int64
	require.NoError(t, db.Model(&authModel.VerificationTokenModel{}).
		Where("user_id = ? AND used = ?", user.UserID, false).
		Count(&live).Error)
	assert.EqualValues(t, 1, live)
}

func TestRegisterActiveEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)
	useTestSecrets(t)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("email = ?", "maria@example.com").
		Update("status", userModel.StatusActive).Error)

	resp, body := postJSON(t, app, "/auth/register", registerPayload())
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "El correo ya está registrado y activo", body["message"])
}

func TestVerifyCodeActivatesAndIssuesTokens(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)
	useTestSecrets(t)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)
	var token authModel.VerificationTokenModel
	require.NoError(t, db.First(&token, "user_id = ? AND used = ?", user.UserID, false).Error)

	resp, body := postJSON(t, app, "/auth/verify-code", map[string]interface{}{
		"email":      "maria@example.com",
		"code":       token.Code,
		"token_type": authModel.TokenTypeVerifyEmail,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["verified"])
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, user.UserID).Error)
	assert.Equal(t, userModel.StatusActive, reloaded.Status)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())

	resp, _ := postJSON(t, app, "/auth/verify-code", map[string]interface{}{
		"email":      "maria@example.com",
		"code":       "000000",
		"token_type": authModel.TokenTypeVerifyEmail,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// el intento fallido cuenta contra el límite
	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)
	var token authModel.VerificationTokenModel
	require.NoError(t, db.First(&token, "user_id = ? AND used = ?", user.UserID, false).Error)
	assert.Equal(t, 1, token.Attempts)
}

func TestLoginInactiveRequiresVerification(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())

	resp, body := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "maria@example.com",
		"password": "secreta123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["require_verification"])
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())

	resp, body := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "maria@example.com",
		"password": "incorrecta",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Correo o contraseña incorrecta", body["message"])
}

func TestLoginActiveReturnsTokenPair(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)
	useTestSecrets(t)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("email = ?", "maria@example.com").
		Update("status", userModel.StatusActive).Error)

	resp, body := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "MARIA@example.com",
		"password": "secreta123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
}

func TestResendCodeCooldown(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())

	resp, body := postJSON(t, app, "/auth/resend-code", map[string]interface{}{
		"email": "maria@example.com",
	})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Espera unos segundos antes de pedir otro código.", body["message"])
}

func TestResendCodeDoesNotRevealUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	resp, _ := postJSON(t, app, "/auth/resend-code", map[string]interface{}{
		"email": "nadie@example.com",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)
	useTestSecrets(t)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("email = ?", "maria@example.com").
		Update("status", userModel.StatusActive).Error)

	resp, _ := postJSON(t, app, "/auth/forgot-password", map[string]interface{}{
		"email": "maria@example.com",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)
	var token authModel.VerificationTokenModel
	require.NoError(t, db.First(&token,
		"user_id = ? AND token_type = ? AND used = ?",
		user.UserID, authModel.TokenTypePasswordReset, false).Error)

	resp, _ = postJSON(t, app, "/auth/reset-password", map[string]interface{}{
		"email":    "maria@example.com",
		"code":     token.Code,
		"password": "nuevaclave123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, user.UserID).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("nuevaclave123")))

	// el código queda consumido
	var live int64
	require.NoError(t, db.Model(&authModel.VerificationTokenModel{}).
		Where("user_id = ? AND token_type = ? AND used = ?",
			user.UserID, authModel.TokenTypePasswordReset, false).
		Count(&live).Error)
	assert.Zero(t, live)
}

func TestForgotPasswordDoesNotRevealInactiveAccount(t *testing.T) {
	db := newTestDB(t)
	app := newAuthApp(db)

	_, _ = postJSON(t, app, "/auth/register", registerPayload())

	resp, body := postJSON(t, app, "/auth/forgot-password", map[string]interface{}{
		"email": "maria@example.com",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Si el email existe y está activo, recibirás un código de recuperación", body["message"])

	var codes int64
	require.NoError(t, db.Model(&authModel.VerificationTokenModel{}).
		Where("token_type = ?", authModel.TokenTypePasswordReset).
		Count(&codes).Error)
	assert.Zero(t, codes)
}
