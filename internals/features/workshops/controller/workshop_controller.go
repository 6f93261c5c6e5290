package controller

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/workshops/service"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

type WorkshopController struct {
	DB        *gorm.DB
	Directory *service.DirectoryService
}

func NewWorkshopController(db *gorm.DB) *WorkshopController {
	return &WorkshopController{
		DB:        db,
		Directory: service.NewDirectoryService(db),
	}
}

// 🟢 GET /workshops  y  GET /workshops/public
// Con sesión, incluye estado de inscripción del espectador.
func (ctrl *WorkshopController) GetAll(c *fiber.Ctx) error {
	viewerID := helper.GetUserIDFromLocals(c)

	workshops, err := ctrl.Directory.ListWorkshops(c.UserContext(), viewerID)
	if err != nil {
		log.Printf("[ERROR] listando talleres: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Error al obtener los talleres")
	}
	return c.JSON(workshops)
}

// 🟢 GET /workshops/:id  y  GET /workshops/public/:id
func (ctrl *WorkshopController) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return helper.Error(c, fiber.StatusBadRequest, "ID de taller inválido")
	}

	viewerID := helper.GetUserIDFromLocals(c)

	workshop, err := ctrl.Directory.GetWorkshop(c.UserContext(), id, viewerID)
	if err != nil {
		var ee *service.EnrollError
		if errors.As(err, &ee) {
			return helper.Error(c, ee.HTTPStatus(), ee.Message)
		}
		log.Printf("[ERROR] obteniendo taller %d: %v", id, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Error al obtener el taller")
	}
	return c.JSON(workshop)
}

// 🟢 GET /workshops/available/list  y  GET /workshops/available/public
func (ctrl *WorkshopController) GetAvailable(c *fiber.Ctx) error {
	viewerID := helper.GetUserIDFromLocals(c)

	workshops, err := ctrl.Directory.ListAvailable(c.UserContext(), viewerID)
	if err != nil {
		log.Printf("[ERROR] listando talleres disponibles: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Error al obtener los talleres disponibles")
	}
	return c.JSON(workshops)
}
