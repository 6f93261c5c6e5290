package service

import (
	"crypto/sha512"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/presbond/congreso-back/internals/configs"
	"github.com/presbond/congreso-back/internals/features/payments/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

const testServerKey = "SB-Mid-server-test"

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
		&model.PaymentModel{},
	))
	return db
}

func useTestServerKey(t *testing.T) {
	t.Helper()
	prev := configs.MidtransServerKey
	configs.MidtransServerKey = testServerKey
	t.Cleanup(func() { configs.MidtransServerKey = prev })
}

func signNotification(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(sum[:])
}

func seedPendingPayment(t *testing.T, db *gorm.DB, orderID string) (*userModel.UserModel, *model.PaymentModel) {
	t.Helper()

	user := &userModel.UserModel{
		NameUser: "Ana",
		Email:    "ana@example.com",
		Password: "x",
		Status:   userModel.StatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	payment := &model.PaymentModel{
		PaymentID:     "22222222-2222-2222-2222-222222222222",
		OrderID:       orderID,
		UserID:        &user.UserID,
		Status:        model.StatusOpen,
		PaymentStatus: model.PaymentStatusUnpaid,
		AmountTotal:   150,
	}
	require.NoError(t, db.Create(payment).Error)
	return user, payment
}

func TestValidSignature(t *testing.T) {
	useTestServerKey(t)

	good := signNotification("orden-1", "200", "150.00")
	assert.True(t, validSignature("orden-1", "200", "150.00", good))
	assert.False(t, validSignature("orden-1", "200", "150.00", "deadbeef"))
	assert.False(t, validSignature("orden-2", "200", "150.00", good))
}

func TestSettlementActivatesUser(t *testing.T) {
	useTestServerKey(t)
	db := newTestDB(t)

	user, _ := seedPendingPayment(t, db, "orden-1")

	body := map[string]interface{}{
		"order_id":           "orden-1",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "150.00",
		"payment_type":       "credit_card",
		"signature_key":      signNotification("orden-1", "200", "150.00"),
	}
	require.NoError(t, HandlePaymentNotification(db, body))

	var payment model.PaymentModel
	require.NoError(t, db.First(&payment, "order_id = ?", "orden-1").Error)
	assert.Equal(t, model.PaymentStatusPaid, payment.PaymentStatus)
	assert.Equal(t, model.StatusComplete, payment.Status)
	assert.Equal(t, "settlement", payment.TransactionStatus)
	assert.Equal(t, "credit_card", payment.PaymentType)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, user.UserID).Error)
	assert.True(t, reloaded.StatusEvent)

	// reintento de la misma notificación: idempotente
	require.NoError(t, HandlePaymentNotification(db, body))
	var count int64
	require.NoError(t, db.Model(&model.PaymentModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestExpireCancelsPaymentWithoutActivating(t *testing.T) {
	useTestServerKey(t)
	db := newTestDB(t)

	user, _ := seedPendingPayment(t, db, "orden-2")

	body := map[string]interface{}{
		"order_id":           "orden-2",
		"transaction_status": "expire",
		"status_code":        "407",
		"gross_amount":       "150.00",
		"signature_key":      signNotification("orden-2", "407", "150.00"),
	}
	require.NoError(t, HandlePaymentNotification(db, body))

	var payment model.PaymentModel
	require.NoError(t, db.First(&payment, "order_id = ?", "orden-2").Error)
	assert.Equal(t, model.PaymentStatusExpired, payment.PaymentStatus)
	assert.Equal(t, model.StatusCanceled, payment.Status)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, user.UserID).Error)
	assert.False(t, reloaded.StatusEvent)
}

func TestNotificationRejectsBadSignature(t *testing.T) {
	useTestServerKey(t)
	db := newTestDB(t)

	seedPendingPayment(t, db, "orden-3")

	body := map[string]interface{}{
		"order_id":           "orden-3",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "150.00",
		"signature_key":      "firma-falsa",
	}
	err := HandlePaymentNotification(db, body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature")

	var payment model.PaymentModel
	require.NoError(t, db.First(&payment, "order_id = ?", "orden-3").Error)
	assert.Equal(t, model.PaymentStatusUnpaid, payment.PaymentStatus)
}

func TestNotificationUnknownOrder(t *testing.T) {
	useTestServerKey(t)
	db := newTestDB(t)

	body := map[string]interface{}{
		"order_id":           "orden-fantasma",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "150.00",
		"signature_key":      signNotification("orden-fantasma", "200", "150.00"),
	}
	require.Error(t, HandlePaymentNotification(db, body))
}
