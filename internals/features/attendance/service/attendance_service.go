package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/attendance/dto"
	"github.com/presbond/congreso-back/internals/features/attendance/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	workshopModel "github.com/presbond/congreso-back/internals/features/workshops/model"
)

// AttendanceService registra asistencias vía QR de forma idempotente:
// repetir el mismo (token, taller) nunca crea dos filas ni falla la segunda
// vez.
type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

// resolveUser busca al usuario por matrícula, email o id numérico, en ese
// orden; gana el primer match.
func (s *AttendanceService) resolveUser(db *gorm.DB, raw string) (*userModel.UserModel, error) {
	var user userModel.UserModel

	err := db.Preload("TypeUser").
		First(&user, "matricula = ?", raw).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Preload("TypeUser").
		First(&user, "email = ?", strings.ToLower(raw)).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if id, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
		err = db.Preload("TypeUser").First(&user, "user_id = ?", id).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, gorm.ErrRecordNotFound
}

// ScanQr registra (o reutiliza) la asistencia para el token escaneado.
func (s *AttendanceService) ScanQr(ctx context.Context, req *dto.ScanQrRequest) (*dto.ScanQrResponse, error) {
	raw := strings.TrimSpace(req.RawValue())
	if raw == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "QR vacío.")
	}

	db := s.DB.WithContext(ctx)

	user, err := s.resolveUser(db, raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "QR no válido o usuario no encontrado.")
		}
		return nil, err
	}

	if !user.StatusEvent {
		return nil, fiber.NewError(fiber.StatusForbidden, "El usuario no tiene pago confirmado para el evento.")
	}

	// Taller seleccionado (opcional)
	var workshop *workshopModel.WorkshopModel
	if req.WorkshopID != 0 {
		var w workshopModel.WorkshopModel
		if err := db.First(&w, "workshop_id = ?", req.WorkshopID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusNotFound, "Taller / evento no encontrado.")
			}
			return nil, err
		}
		workshop = &w
	}

	// qr_code: alcance (token, taller), creado perezosamente. Sin taller la
	// asistencia queda sin qr_code_id (asistencia general).
	var qrCodeID *int64
	if workshop != nil {
		var qr model.QrCodeModel
		err := db.First(&qr, "token = ? AND workshop_id = ?", raw, workshop.WorkshopID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			qr = model.QrCodeModel{Token: raw, WorkshopID: workshop.WorkshopID}
			if err := db.Create(&qr).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		qrCodeID = &qr.QrCodeID
	}

	// ¿Ya hay asistencia para este usuario (y este alcance)?
	attendanceQuery := db.Where("user_id = ?", user.UserID)
	if qrCodeID != nil {
		attendanceQuery = attendanceQuery.Where("qr_code_id = ?", *qrCodeID)
	}

	var attendance model.AttendanceModel
	alreadyRegistered := false

	err = attendanceQuery.First(&attendance).Error
	switch {
	case err == nil:
		alreadyRegistered = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		attendance = model.AttendanceModel{
			UserID:   user.UserID,
			QrCodeID: qrCodeID,
		}
		if err := db.Create(&attendance).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	resp := &dto.ScanQrResponse{
		Status:       "ok",
		Message:      "Asistencia registrada correctamente.",
		AttendanceID: attendance.AttendanceID,
		At:           attendance.DateTime,
		User: dto.ScannedUser{
			ID:          user.UserID,
			Name:        user.FullName(),
			Email:       user.Email,
			Matricula:   user.Matricula,
			Type:        user.TypeName(),
			StatusEvent: user.StatusEvent,
		},
	}
	if alreadyRegistered {
		resp.Status = "already_registered"
		resp.Message = "La asistencia ya había sido registrada anteriormente."
	}
	if workshop != nil {
		resp.Workshop = &dto.ScannedWorkshop{
			ID:        workshop.WorkshopID,
			Name:      workshop.NameWorkshop,
			Building:  workshop.Building,
			Classroom: workshop.Classroom,
			Category:  workshop.Category,
		}
	}
	return resp, nil
}
