package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	paymentModel "github.com/presbond/congreso-back/internals/features/payments/model"
	scheduleModel "github.com/presbond/congreso-back/internals/features/schedule/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	"github.com/presbond/congreso-back/internals/features/workshops/model"
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
		&model.WorkshopModel{},
		&scheduleModel.ScheduleModel{},
		&paymentModel.PaymentModel{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, statusEvent bool) *userModel.UserModel {
	t.Helper()
	user := &userModel.UserModel{
		NameUser:    "Ana",
		Email:       "ana@example.com",
		Password:    "x",
		Status:      userModel.StatusActive,
		StatusEvent: statusEvent,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedWorkshop(t *testing.T, db *gorm.DB, name string, spotsMax *int, occupied int) *model.WorkshopModel {
	t.Helper()
	w := &model.WorkshopModel{
		NameWorkshop:  name,
		SpotsMax:      spotsMax,
		SpotsOccupied: occupied,
		Status:        model.StatusActive,
	}
	require.NoError(t, db.Create(w).Error)
	return w
}

func intPtr(v int) *int { return &v }

func TestEnrollAssignsWorkshopAndRecountsSpots(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	user := seedUser(t, db, true)
	workshop := seedWorkshop(t, db, "Robótica", intPtr(10), 0)

	result, err := svc.Enroll(context.Background(), user.UserID, workshop.WorkshopID)
	require.NoError(t, err)
	assert.Equal(t, workshop.WorkshopID, result.WorkshopID)
	assert.Equal(t, "Robótica", result.WorkshopName)

	var reloadedUser userModel.UserModel
	require.NoError(t, db.First(&reloadedUser, user.UserID).Error)
	require.NotNil(t, reloadedUser.WorkshopID)
	assert.Equal(t, workshop.WorkshopID, *reloadedUser.WorkshopID)

	var reloadedWorkshop model.WorkshopModel
	require.NoError(t, db.First(&reloadedWorkshop, workshop.WorkshopID).Error)
	assert.Equal(t, 1, reloadedWorkshop.SpotsOccupied)
}

func TestEnrollRequiresVerifiedPayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	user := seedUser(t, db, false)
	workshop := seedWorkshop(t, db, "Robótica", intPtr(10), 0)

	_, err := svc.Enroll(context.Background(), user.UserID, workshop.WorkshopID)
	require.Error(t, err)

	var ee *EnrollError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindForbidden, ee.Kind)
}

func TestEnrollAcceptsApprovedPaymentWithoutFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	user := seedUser(t, db, false)
	workshop := seedWorkshop(t, db, "Impresión 3D", intPtr(5), 0)

	payment := &paymentModel.PaymentModel{
		PaymentID:     "11111111-1111-1111-1111-111111111111",
		OrderID:       "orden-1",
		UserID:        &user.UserID,
		AmountTotal:   150,
		Status:        paymentModel.StatusComplete,
		PaymentStatus: paymentModel.PaymentStatusPaid,
	}
	require.NoError(t, db.Create(payment).Error)

	_, err := svc.Enroll(context.Background(), user.UserID, workshop.WorkshopID)
	require.NoError(t, err)
}

func TestEnrollRejectsSecondWorkshop(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	user := seedUser(t, db, true)
	first := seedWorkshop(t, db, "Robótica", intPtr(10), 0)
	second := seedWorkshop(t, db, "Drones", intPtr(10), 0)

	_, err := svc.Enroll(context.Background(), user.UserID, first.WorkshopID)
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), user.UserID, second.WorkshopID)
	require.Error(t, err)

	var ee *EnrollError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindInvalidState, ee.Kind)

	// el intento fallido no toca el contador del segundo taller
	var reloaded model.WorkshopModel
	require.NoError(t, db.First(&reloaded, second.WorkshopID).Error)
	assert.Equal(t, 0, reloaded.SpotsOccupied)
}

func TestEnrollRejectsFullWorkshop(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	user := seedUser(t, db, true)
	workshop := seedWorkshop(t, db, "Robótica", intPtr(2), 2)

	_, err := svc.Enroll(context.Background(), user.UserID, workshop.WorkshopID)
	require.Error(t, err)

	var ee *EnrollError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindConflict, ee.Kind)
}

func TestEnrollUnlimitedWorkshopIgnoresCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	user := seedUser(t, db, true)
	// spots_max NULL = ilimitado aunque el contador venga inflado
	workshop := seedWorkshop(t, db, "Conferencia Magna", nil, 9999)

	_, err := svc.Enroll(context.Background(), user.UserID, workshop.WorkshopID)
	require.NoError(t, err)

	// el recount reconcilia el contador con la realidad
	var reloaded model.WorkshopModel
	require.NoError(t, db.First(&reloaded, workshop.WorkshopID).Error)
	assert.Equal(t, 1, reloaded.SpotsOccupied)
}

func TestEnrollRecountFixesStaleCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	// contador desfasado por debajo: dos usuarios ya inscritos pero
	// spots_occupied dice 0
	workshop := seedWorkshop(t, db, "Robótica", intPtr(10), 0)
	for i, email := range []string{"a@x.com", "b@x.com"} {
		u := &userModel.UserModel{
			NameUser:    "Previo",
			Email:       email,
			Password:    "x",
			Status:      userModel.StatusActive,
			StatusEvent: true,
			WorkshopID:  &workshop.WorkshopID,
		}
		require.NoError(t, db.Create(u).Error, "seed %d", i)
	}

	user := seedUser(t, db, true)
	_, err := svc.Enroll(context.Background(), user.UserID, workshop.WorkshopID)
	require.NoError(t, err)

	var reloaded model.WorkshopModel
	require.NoError(t, db.First(&reloaded, workshop.WorkshopID).Error)
	assert.Equal(t, 3, reloaded.SpotsOccupied)
}

func TestEnrollWorkshopNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	user := seedUser(t, db, true)

	_, err := svc.Enroll(context.Background(), user.UserID, 999)
	require.Error(t, err)

	var ee *EnrollError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindNotFound, ee.Kind)
}

func TestEnrollRevertsWholeTransactionOnOvershoot(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	// contador desfasado por debajo del conteo real: el pre-chequeo (1 < 2)
	// deja pasar, pero el recuento dentro de la transacción da 3 > 2
	workshop := seedWorkshop(t, db, "Robótica", intPtr(2), 1)
	for _, email := range []string{"a@x.com", "b@x.com"} {
		u := &userModel.UserModel{
			NameUser:    "Previo",
			Email:       email,
			Password:    "x",
			Status:      userModel.StatusActive,
			StatusEvent: true,
			WorkshopID:  &workshop.WorkshopID,
		}
		require.NoError(t, db.Create(u).Error)
	}

	user := seedUser(t, db, true)
	_, err := svc.Enroll(context.Background(), user.UserID, workshop.WorkshopID)
	require.Error(t, err)

	var ee *EnrollError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindConflict, ee.Kind)

	// la transacción entera se revierte: ni asignación ni contador
	var reloadedUser userModel.UserModel
	require.NoError(t, db.First(&reloadedUser, user.UserID).Error)
	assert.Nil(t, reloadedUser.WorkshopID)

	var reloadedWorkshop model.WorkshopModel
	require.NoError(t, db.First(&reloadedWorkshop, workshop.WorkshopID).Error)
	assert.Equal(t, 1, reloadedWorkshop.SpotsOccupied)
}

func TestEnrollRejectsNonPositiveIDBeforeAnyQuery(t *testing.T) {
	// servicio sin conexión: el guard debe fallar antes de tocar la base
	svc := NewEnrollmentService(nil)

	for _, id := range []int64{0, -5} {
		_, err := svc.Enroll(context.Background(), 1, id)
		require.Error(t, err)

		var ee *EnrollError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, KindInvalidArgument, ee.Kind)
	}
}
