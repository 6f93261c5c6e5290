package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/schedule/dto"
	"github.com/presbond/congreso-back/internals/features/schedule/service"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

var validate = validator.New()

type ScheduleController struct {
	Service *service.ScheduleService
}

func NewScheduleController(db *gorm.DB) *ScheduleController {
	return &ScheduleController{Service: service.NewScheduleService(db)}
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return id, nil
}

// 📅 GET /schedule
func (ctrl *ScheduleController) List(c *fiber.Ctx) error {
	items, err := ctrl.Service.List()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudo obtener la agenda")
	}
	return c.JSON(items)
}

// GET /schedule/:id
func (ctrl *ScheduleController) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	item, err := ctrl.Service.GetByID(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(item)
}

// GET /schedule/workshops/:id
func (ctrl *ScheduleController) ListByWorkshop(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	items, err := ctrl.Service.ListByWorkshop(id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(items)
}

// GET /schedule/upcoming/events?limit=
func (ctrl *ScheduleController) UpcomingEvents(c *fiber.Ctx) error {
	items, err := ctrl.Service.UpcomingEvents(c.QueryInt("limit", 5))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(items)
}

// GET /schedule/upcoming/workshops?limit=
func (ctrl *ScheduleController) UpcomingWorkshops(c *fiber.Ctx) error {
	items, err := ctrl.Service.UpcomingWorkshops(c.QueryInt("limit", 5))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(items)
}

// 🛠️ POST /admin/schedule
func (ctrl *ScheduleController) Create(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	item, err := ctrl.Service.Create(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Sesión creada", item)
}

// PUT /admin/schedule/:id
func (ctrl *ScheduleController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	item, err := ctrl.Service.Update(id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Sesión actualizada", item)
}

// DELETE /admin/schedule/:id
func (ctrl *ScheduleController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.Service.Delete(id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Sesión eliminada", nil)
}
