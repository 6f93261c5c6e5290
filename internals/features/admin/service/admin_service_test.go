package service

import (
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attendanceModel "github.com/presbond/congreso-back/internals/features/attendance/model"
	"github.com/presbond/congreso-back/internals/features/admin/dto"
	gameModel "github.com/presbond/congreso-back/internals/features/game/model"
	paymentModel "github.com/presbond/congreso-back/internals/features/payments/model"
	authModel "github.com/presbond/congreso-back/internals/features/users/auth/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	workshopModel "github.com/presbond/congreso-back/internals/features/workshops/model"
	helper "github.com/presbond/congreso-back/internals/helpers"
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
		&workshopModel.WorkshopModel{},
		&paymentModel.PaymentModel{},
		&authModel.VerificationTokenModel{},
		&attendanceModel.AttendanceModel{},
		&gameModel.GameScoreModel{},
	))
	return db
}

func strPtr(s string) *string { return &s }

func seedTypes(t *testing.T, db *gorm.DB) {
	t.Helper()
	types := []userModel.TypeUserModel{
		{TypeUserID: 1, NameType: "Estudiante"},
		{TypeUserID: 2, NameType: "Docente"},
		{TypeUserID: 3, NameType: "Externo"},
		{TypeUserID: 4, NameType: "Ponente/Tallerista"},
	}
	for i := range types {
		require.NoError(t, db.Create(&types[i]).Error)
	}
}

func seedPanelUsers(t *testing.T, db *gorm.DB) {
	t.Helper()
	seedTypes(t, db)

	studentType, externalType := int64(1), int64(3)
	users := []userModel.UserModel{
		{
			NameUser:        "María",
			PaternalSurname: "López",
			Email:           "maria@example.com",
			Password:        "x",
			Matricula:       strPtr("20230001"),
			Grade:           strPtr("1"),
			GroupUser:       strPtr("A"),
			Status:          userModel.StatusActive,
			StatusEvent:     true,
			TypeUserID:      &studentType,
		},
		{
			NameUser:        "José",
			PaternalSurname: "López",
			Email:           "jose@example.com",
			Password:        "x",
			Matricula:       strPtr("20230002"),
			Grade:           strPtr("2"),
			GroupUser:       strPtr("B"),
			Status:          userModel.StatusActive,
			TypeUserID:      &studentType,
		},
		{
			NameUser:   "Carla",
			Email:      "carla@example.com",
			Password:   "x",
			Status:     userModel.StatusInactive,
			TypeUserID: &externalType,
		},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}
}

func TestListUsersSearchCombinesTerms(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	// ambos términos deben matchear (AND entre términos, OR entre columnas)
	resp, err := svc.ListUsers(ListUsersArgs{
		Q:      "lópez maria",
		Paging: helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Total)
	assert.EqualValues(t, 1, resp.TotalFiltro)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "maria@example.com", resp.Data[0].Email)
}

func TestListUsersFilterByLabel(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	resp, err := svc.ListUsers(ListUsersArgs{
		Filter: "Estudiante",
		Paging: helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.TotalFiltro)

	resp, err = svc.ListUsers(ListUsersArgs{
		Filter: "Inactivo",
		Paging: helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.TotalFiltro)
	assert.Equal(t, "carla@example.com", resp.Data[0].Email)
}

func TestListUsersFilterKeyValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	resp, err := svc.ListUsers(ListUsersArgs{
		Filter: "event:true",
		Paging: helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.TotalFiltro)
	assert.Equal(t, "maria@example.com", resp.Data[0].Email)
}

func TestListUsersTodosMeansNoFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	resp, err := svc.ListUsers(ListUsersArgs{
		Filter: "Todos",
		Paging: helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.TotalFiltro)
}

func TestListUsersGradeGroupFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	resp, err := svc.ListUsers(ListUsersArgs{
		Grade:  "2°",
		Group:  "b",
		Paging: helper.Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.TotalFiltro)
	assert.Equal(t, "jose@example.com", resp.Data[0].Email)
}

func TestSetUserEventActivationNeedsPaymentUnlessForced(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "jose@example.com").Error)

	_, err := svc.SetUserEventActivation(user.UserID, &dto.ActivationRequest{Activate: true})
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusForbidden, fe.Code)

	result, err := svc.SetUserEventActivation(user.UserID, &dto.ActivationRequest{Activate: true, Force: true})
	require.NoError(t, err)
	assert.True(t, result.StatusEvent)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, user.UserID).Error)
	assert.True(t, reloaded.StatusEvent)
}

func TestSetUserEventActivationDeactivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)

	result, err := svc.SetUserEventActivation(user.UserID, &dto.ActivationRequest{Activate: false})
	require.NoError(t, err)
	assert.False(t, result.StatusEvent)
}

func TestBulkActivationRejectsUnpaidWithoutForce(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	var ids []int64
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("status = ?", userModel.StatusActive).
		Pluck("user_id", &ids).Error)

	_, err := svc.SetUsersEventActivationBulk(&dto.BulkActivationRequest{IDs: ids, Activate: true})
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)

	results, err := svc.SetUsersEventActivationBulk(&dto.BulkActivationRequest{IDs: ids, Activate: true, Force: true})
	require.NoError(t, err)
	assert.Len(t, results, len(ids))

	var activated int64
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("status_event = ?", true).Count(&activated).Error)
	assert.EqualValues(t, len(ids), activated)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "maria@example.com").Error)

	require.NoError(t, db.Create(&gameModel.GameScoreModel{UserID: user.UserID, Score: 10}).Error)
	require.NoError(t, db.Create(&attendanceModel.AttendanceModel{UserID: user.UserID}).Error)

	require.NoError(t, svc.DeleteUser(user.UserID))

	var users, scores, attendances int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("user_id = ?", user.UserID).Count(&users).Error)
	require.NoError(t, db.Model(&gameModel.GameScoreModel{}).Where("user_id = ?", user.UserID).Count(&scores).Error)
	require.NoError(t, db.Model(&attendanceModel.AttendanceModel{}).Where("user_id = ?", user.UserID).Count(&attendances).Error)
	assert.Zero(t, users)
	assert.Zero(t, scores)
	assert.Zero(t, attendances)
}

func TestFilterOptionsNormalizesGrades(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)
	seedPanelUsers(t, db)

	opts, err := svc.FilterOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, opts.Grades)
	assert.Equal(t, []string{"A", "B"}, opts.Groups)
	assert.NotEmpty(t, opts.Types)
}
