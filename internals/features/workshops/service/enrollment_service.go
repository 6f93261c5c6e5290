package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	paymentService "github.com/presbond/congreso-back/internals/features/payments/service"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	"github.com/presbond/congreso-back/internals/features/workshops/model"
)

// EnrollmentService inscribe usuarios a talleres respetando cupo y pago
// verificado, resistente a inscripciones concurrentes al mismo taller.
type EnrollmentService struct {
	DB *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{DB: db}
}

type EnrollResult struct {
	UserID       int64  `json:"user_id"`
	WorkshopID   int64  `json:"workshop_id"`
	WorkshopName string `json:"workshop_name"`
}

// Enroll inscribe al usuario en un taller (sólo uno por usuario).
//   - Requiere pago verificado (users.status_event o un pago paid/complete)
//   - Respeta cupo (spots_max NULL/0 = ilimitado)
//   - Transacción: asigna workshop al usuario + recalcula spots_occupied
//     contando filas de users (reconciliación, nunca incremento)
//   - Si el conteo recalculado excede spots_max la transacción entera se
//     revierte: ni la asignación ni el contador quedan escritos.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, workshopID int64) (*EnrollResult, error) {
	if workshopID < 1 {
		return nil, errInvalidArgument("workshopId inválido")
	}

	db := s.DB.WithContext(ctx)

	var user userModel.UserModel
	if err := db.Select("user_id", "status_event", "workshop_id").
		First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Usuario no encontrado")
		}
		log.Printf("[ERROR] enroll: leyendo usuario %d: %v", userID, err)
		return nil, errInternal("Error al procesar la inscripción")
	}
	if user.WorkshopID != nil {
		return nil, errInvalidState("Ya estás inscrito en un taller")
	}

	if !paymentService.IsPaymentEligible(db, &user) {
		return nil, errForbidden("Pago no verificado")
	}

	var workshop model.WorkshopModel
	if err := db.First(&workshop, "workshop_id = ? AND status = ?", workshopID, model.StatusActive).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Taller no encontrado")
		}
		log.Printf("[ERROR] enroll: leyendo taller %d: %v", workshopID, err)
		return nil, errInternal("Error al procesar la inscripción")
	}

	unlimited := workshop.Unlimited()

	// Pre-chequeo optimista fuera de la transacción: rechazo rápido, no es
	// el chequeo autoritativo.
	if !unlimited && workshop.SpotsOccupied >= workshop.MaxSpots() {
		return nil, errConflict("Cupo lleno")
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		// 1) Verificación de cupo "en vivo" dentro de la transacción
		if !unlimited {
			var w model.WorkshopModel
			if err := tx.Select("workshop_id", "spots_max", "spots_occupied").
				First(&w, "workshop_id = ?", workshopID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errNotFound("Taller no encontrado")
				}
				return errInternal("Error al procesar la inscripción")
			}
			if w.MaxSpots() > 0 && w.SpotsOccupied >= w.MaxSpots() {
				return errConflict("Cupo agotado")
			}
		}

		// 2) Asignar el taller al usuario. El predicado workshop_id IS NULL
		// re-verifica la precondición: dos requests concurrentes del mismo
		// usuario no pueden pasar ambos por aquí.
		res := tx.Model(&userModel.UserModel{}).
			Where("user_id = ? AND workshop_id IS NULL", userID).
			Update("workshop_id", workshopID)
		if res.Error != nil {
			return errInternal("Error al procesar la inscripción")
		}
		if res.RowsAffected == 0 {
			return errInvalidState("Ya estás inscrito en un taller")
		}

		// 3) Reconciliación exacta del cupo: contar usuarios y asignar
		// spots_occupied. Recalcular en vez de incrementar evita lost
		// updates sin necesitar locks de fila.
		var count int64
		if err := tx.Model(&userModel.UserModel{}).
			Where("workshop_id = ?", workshopID).
			Count(&count).Error; err != nil {
			return errInternal("Error al procesar la inscripción")
		}
		if err := tx.Model(&model.WorkshopModel{}).
			Where("workshop_id = ?", workshopID).
			Update("spots_occupied", count).Error; err != nil {
			return errInternal("Error al procesar la inscripción")
		}

		// 4) Chequeo autoritativo: si el conteo real superó el máximo, la
		// transacción completa se revierte.
		if !unlimited {
			var w model.WorkshopModel
			if err := tx.Select("workshop_id", "spots_max", "spots_occupied").
				First(&w, "workshop_id = ?", workshopID).Error; err != nil {
				return errInternal("Error al procesar la inscripción")
			}
			if w.MaxSpots() > 0 && w.SpotsOccupied > w.MaxSpots() {
				return errConflict("Cupo excedido por concurrencia, intenta nuevamente.")
			}
		}

		return nil
	})
	if txErr != nil {
		var ee *EnrollError
		if errors.As(txErr, &ee) {
			return nil, ee
		}
		log.Printf("[ERROR] enroll: transacción usuario=%d taller=%d: %v", userID, workshopID, txErr)
		return nil, errInternal("Error al procesar la inscripción")
	}

	return &EnrollResult{
		UserID:       userID,
		WorkshopID:   workshopID,
		WorkshopName: workshop.NameWorkshop,
	}, nil
}
