package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/presbond/congreso-back/internals/features/schedule/dto"
	"github.com/presbond/congreso-back/internals/features/schedule/model"
	workshopModel "github.com/presbond/congreso-back/internals/features/workshops/model"
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
		&workshopModel.WorkshopModel{},
		&model.ScheduleModel{},
	))
	return db
}

func dateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateAndListOrderedByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewScheduleService(db)

	_, err := svc.Create(&dto.ScheduleRequest{
		NameConference: "Clausura",
		AssignedDate:   dateIn(2),
		StartTime:      "10:00",
		EndTime:        "11:00",
	})
	require.NoError(t, err)

	_, err = svc.Create(&dto.ScheduleRequest{
		NameConference: "Apertura",
		AssignedDate:   dateIn(1),
		StartTime:      "09:00",
		EndTime:        "10:00",
	})
	require.NoError(t, err)

	items, err := svc.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Apertura", items[0].NameConference)
	assert.Equal(t, "Clausura", items[1].NameConference)
}

func TestCreateRejectsInvalidDateAndMissingWorkshop(t *testing.T) {
	db := newTestDB(t)
	svc := NewScheduleService(db)

	_, err := svc.Create(&dto.ScheduleRequest{
		NameConference: "Apertura",
		AssignedDate:   "15/09/2026",
	})
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)

	missing := int64(99)
	_, err = svc.Create(&dto.ScheduleRequest{
		NameConference: "Taller fantasma",
		WorkshopID:     &missing,
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestSessionsCarryWorkshopName(t *testing.T) {
	db := newTestDB(t)
	svc := NewScheduleService(db)

	workshop := &workshopModel.WorkshopModel{
		NameWorkshop: "Robótica",
		Status:       workshopModel.StatusActive,
	}
	require.NoError(t, db.Create(workshop).Error)

	created, err := svc.Create(&dto.ScheduleRequest{
		NameConference: "Sesión 1",
		AssignedDate:   dateIn(1),
		WorkshopID:     &workshop.WorkshopID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Robótica", created.WorkshopName)

	byWorkshop, err := svc.ListByWorkshop(workshop.WorkshopID)
	require.NoError(t, err)
	require.Len(t, byWorkshop, 1)
	assert.Equal(t, "Robótica", byWorkshop[0].WorkshopName)
}

func TestUpcomingSplitsEventsAndWorkshops(t *testing.T) {
	db := newTestDB(t)
	svc := NewScheduleService(db)

	workshop := &workshopModel.WorkshopModel{
		NameWorkshop: "Robótica",
		Status:       workshopModel.StatusActive,
	}
	require.NoError(t, db.Create(workshop).Error)

	_, err := svc.Create(&dto.ScheduleRequest{
		NameConference: "Conferencia pasada",
		AssignedDate:   dateIn(-1),
	})
	require.NoError(t, err)
	_, err = svc.Create(&dto.ScheduleRequest{
		NameConference: "Conferencia futura",
		AssignedDate:   dateIn(1),
	})
	require.NoError(t, err)
	_, err = svc.Create(&dto.ScheduleRequest{
		NameConference: "Sesión de taller",
		AssignedDate:   dateIn(1),
		WorkshopID:     &workshop.WorkshopID,
	})
	require.NoError(t, err)

	events, err := svc.UpcomingEvents(5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Conferencia futura", events[0].NameConference)

	sessions, err := svc.UpcomingWorkshops(5)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Sesión de taller", sessions[0].NameConference)
	assert.Equal(t, "Robótica", sessions[0].WorkshopName)
}

func TestUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewScheduleService(db)

	created, err := svc.Create(&dto.ScheduleRequest{
		NameConference: "Apertura",
		AssignedDate:   dateIn(1),
	})
	require.NoError(t, err)

	updated, err := svc.Update(created.ScheduleID, &dto.ScheduleRequest{
		NameConference: "Apertura oficial",
		AssignedDate:   dateIn(3),
		StartTime:      "08:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Apertura oficial", updated.NameConference)
	assert.Equal(t, "08:30", updated.StartTime)

	require.NoError(t, svc.Delete(created.ScheduleID))

	err = svc.Delete(created.ScheduleID)
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}
