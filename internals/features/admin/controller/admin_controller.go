package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/admin/dto"
	"github.com/presbond/congreso-back/internals/features/admin/service"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

var validate = validator.New()

type AdminController struct {
	Service *service.AdminService
	Badges  *service.BadgeService
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		Service: service.NewAdminService(db),
		Badges:  service.NewBadgeService(db),
	}
}

// 📋 GET /admin/users
func (ctrl *AdminController) ListUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 200)

	resp, err := ctrl.Service.ListUsers(service.ListUsersArgs{
		Q:      strings.TrimSpace(c.Query("q")),
		Filter: strings.TrimSpace(c.Query("filter")),
		Grade:  strings.TrimSpace(c.Query("grade")),
		Group:  strings.TrimSpace(c.Query("group")),
		Paging: paging,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return c.JSON(resp)
}

// 🎛️ GET /admin/users/filter-options
func (ctrl *AdminController) FilterOptions(c *fiber.Ctx) error {
	opts, err := ctrl.Service.FilterOptions()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "No se pudieron obtener los filtros")
	}
	return c.JSON(opts)
}

// ✅ PATCH /admin/users/:id/activation
func (ctrl *AdminController) SetActivation(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.ActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}

	result, err := ctrl.Service.SetUserEventActivation(userID, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(result)
}

// ✅ PATCH /admin/users/activation-bulk
func (ctrl *AdminController) SetActivationBulk(c *fiber.Ctx) error {
	var req dto.BulkActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	results, err := ctrl.Service.SetUsersEventActivationBulk(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return c.JSON(results)
}

// 🗑️ DELETE /admin/users/:id
func (ctrl *AdminController) DeleteUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID inválido")
	}

	if err := ctrl.Service.DeleteUser(userID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Usuario eliminado correctamente", fiber.Map{"id": userID})
}

// 🪪 POST /admin/users/generate-badges
func (ctrl *AdminController) GenerateBadges(c *fiber.Ctx) error {
	var req dto.GenerateBadgesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	archive, err := ctrl.Badges.GenerateBadges(&req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="gafetes.zip"`)
	return c.Send(archive)
}
