package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/configs"
	"github.com/presbond/congreso-back/internals/features/finance/dto"
	"github.com/presbond/congreso-back/internals/features/finance/service"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

var validate = validator.New()

type FinanceController struct {
	Service *service.FinanceService
}

func NewFinanceController(db *gorm.DB) *FinanceController {
	return &FinanceController{Service: service.NewFinanceService(db)}
}

// 📊 GET /admin/finance/summary?price=
func (ctrl *FinanceController) Summary(c *fiber.Ctx) error {
	price := configs.PriceCongreso
	if raw := strings.TrimSpace(c.Query("price")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "price inválido")
		}
		price = parsed
	}

	summary, err := ctrl.Service.Summary(price)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(summary)
}

// 🗂️ GET /admin/finance/categories
func (ctrl *FinanceController) ListCategories(c *fiber.Ctx) error {
	categories, err := ctrl.Service.ListCategories()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudieron obtener las categorías")
	}
	return c.JSON(categories)
}

// ➕ POST /admin/finance/categories
func (ctrl *FinanceController) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	cat, err := ctrl.Service.CreateCategory(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// ✏️ PUT /admin/finance/categories/:id
func (ctrl *FinanceController) UpdateCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	cat, err := ctrl.Service.UpdateCategory(id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(cat)
}

// 🗑️ DELETE /admin/finance/categories/:id
func (ctrl *FinanceController) DeleteCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := ctrl.Service.DeleteCategory(id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Categoría eliminada correctamente.", nil)
}

// 📄 GET /admin/finance/movements?tipo=&categoria=
func (ctrl *FinanceController) ListMovements(c *fiber.Ctx) error {
	args := service.ListMovementsArgs{
		MovementType: strings.ToLower(strings.TrimSpace(c.Query("tipo"))),
	}
	if raw := strings.TrimSpace(c.Query("categoria")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			args.CategoryID = id
		}
	}

	movements, err := ctrl.Service.ListMovements(args)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudieron obtener los movimientos")
	}
	return c.JSON(movements)
}

// ➕ POST /admin/finance/movements
func (ctrl *FinanceController) CreateMovement(c *fiber.Ctx) error {
	var req dto.MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctrl.Service.CreateMovement(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// ✏️ PUT /admin/finance/movements/:id
func (ctrl *FinanceController) UpdateMovement(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctrl.Service.UpdateMovement(id, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(m)
}

// 🗑️ DELETE /admin/finance/movements/:id
func (ctrl *FinanceController) DeleteMovement(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := ctrl.Service.DeleteMovement(id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Movimiento eliminado correctamente.", nil)
}
