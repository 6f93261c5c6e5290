package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/attendance/dto"
	"github.com/presbond/congreso-back/internals/features/attendance/service"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

type AttendanceController struct {
	DB      *gorm.DB
	Service *service.AttendanceService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{
		DB:      db,
		Service: service.NewAttendanceService(db),
	}
}

// 🟢 POST /admin/attendance/scan-qr — escanear QR y registrar asistencia
func (ctrl *AttendanceController) ScanQr(c *fiber.Ctx) error {
	var req dto.ScanQrRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}

	resp, err := ctrl.Service.ScanQr(c.UserContext(), &req)
	if err != nil {
		log.Printf("[ERROR] scan-qr: %v", err)
		return helper.FromFiberError(c, err)
	}
	return c.JSON(resp)
}

// 🟢 GET /admin/attendance/workshops — selector de talleres/eventos
func (ctrl *AttendanceController) ListWorkshops(c *fiber.Ctx) error {
	workshops, err := ctrl.Service.ListWorkshopsForAttendance(c.UserContext())
	if err != nil {
		log.Printf("[ERROR] attendance workshops: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Error al obtener los talleres")
	}
	return c.JSON(fiber.Map{"workshops": workshops})
}

// 🟢 GET /admin/attendance/workshops/:id/users-by-type
func (ctrl *AttendanceController) ListUsersByType(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID de taller inválido")
	}

	roster, err := ctrl.Service.ListWorkshopUsersByType(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(roster)
}
