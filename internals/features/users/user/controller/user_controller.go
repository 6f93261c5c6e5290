package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentService "github.com/presbond/congreso-back/internals/features/payments/service"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	workshopDTO "github.com/presbond/congreso-back/internals/features/workshops/dto"
	workshopService "github.com/presbond/congreso-back/internals/features/workshops/service"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

var validate = validator.New()

type UserController struct {
	DB         *gorm.DB
	Enrollment *workshopService.EnrollmentService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		DB:         db,
		Enrollment: workshopService.NewEnrollmentService(db),
	}
}

// 🟢 POST /users/me/workshop — inscribirse a un taller (usuario actual)
func (ctrl *UserController) EnrollMyWorkshop(c *fiber.Ctx) error {
	userID := helper.GetUserIDFromLocals(c)
	if userID == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Usuario no válido")
	}

	var req workshopDTO.EnrollWorkshopRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Petición inválida")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Enrollment.Enroll(c.UserContext(), userID, req.WorkshopID)
	if err != nil {
		var ee *workshopService.EnrollError
		if errors.As(err, &ee) {
			return helper.Error(c, ee.HTTPStatus(), ee.Message)
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"ok":            true,
		"message":       "Inscripción realizada",
		"user_id":       result.UserID,
		"workshop_id":   result.WorkshopID,
		"workshop_name": result.WorkshopName,
	})
}

// 🟢 GET /users/me — perfil del usuario actual
func (ctrl *UserController) GetMe(c *fiber.Ctx) error {
	userID := helper.GetUserIDFromLocals(c)
	if userID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}

	var user userModel.UserModel
	if err := ctrl.DB.Preload("TypeUser").First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Usuario no encontrado")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Error al obtener el perfil")
	}

	return helper.Success(c, "Perfil obtenido", fiber.Map{
		"id":           user.UserID,
		"name":         user.FullName(),
		"email":        user.Email,
		"matricula":    user.Matricula,
		"type":         user.TypeName(),
		"status":       user.Status,
		"status_event": user.StatusEvent,
		"has_payment":  paymentService.IsPaymentEligible(ctrl.DB, &user),
		"workshop_id":  user.WorkshopID,
	})
}
