package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	paymentService "github.com/presbond/congreso-back/internals/features/payments/service"
	scheduleModel "github.com/presbond/congreso-back/internals/features/schedule/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	"github.com/presbond/congreso-back/internals/features/workshops/dto"
	"github.com/presbond/congreso-back/internals/features/workshops/model"
)

// DirectoryService proyecta talleres con disponibilidad y, para espectadores
// autenticados, el estado de inscripción por taller.
type DirectoryService struct {
	DB *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{DB: db}
}

// viewerState: lo que el directorio necesita saber del espectador.
// viewerID 0 = request anónimo.
type viewerState struct {
	Authenticated bool
	HasPayment    bool
	WorkshopID    *int64
}

func (s *DirectoryService) loadViewer(db *gorm.DB, viewerID int64) viewerState {
	if viewerID == 0 {
		return viewerState{}
	}
	var user userModel.UserModel
	if err := db.Select("user_id", "status_event", "workshop_id").
		First(&user, "user_id = ?", viewerID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] directory: leyendo espectador %d: %v", viewerID, err)
		}
		return viewerState{}
	}
	return viewerState{
		Authenticated: true,
		HasPayment:    paymentService.IsPaymentEligible(db, &user),
		WorkshopID:    user.WorkshopID,
	}
}

// determineEnrollmentStatus evalúa el estado en orden estricto de prioridad;
// gana la primera condición. Estar inscrito en OTRO taller no se refleja
// aquí: eso lo rechaza el motor de inscripción, no esta proyección.
func determineEnrollmentStatus(isAuthenticated, hasPayment, enrolledInThis bool, availableSpots int) dto.EnrollmentInfo {
	if !isAuthenticated {
		return dto.EnrollmentInfo{
			EnrollmentStatus: dto.EnrollmentNotAuthenticated,
			CanEnroll:        false,
			ButtonText:       "Inscribirse",
			ButtonDisabled:   true,
			ButtonType:       "default",
		}
	}
	if enrolledInThis {
		return dto.EnrollmentInfo{
			EnrollmentStatus: dto.EnrollmentAlreadyEnrolled,
			CanEnroll:        false,
			ButtonText:       "Ya inscrito",
			ButtonDisabled:   true,
			ButtonType:       "success",
		}
	}
	if !hasPayment {
		return dto.EnrollmentInfo{
			EnrollmentStatus: dto.EnrollmentNeedsPayment,
			CanEnroll:        false,
			ButtonText:       "Completar Pago",
			ButtonDisabled:   false,
			ButtonType:       "warning",
		}
	}
	if availableSpots > 0 {
		return dto.EnrollmentInfo{
			EnrollmentStatus: dto.EnrollmentCanEnroll,
			CanEnroll:        true,
			ButtonText:       "Inscribirse",
			ButtonDisabled:   false,
			ButtonType:       "default",
		}
	}
	return dto.EnrollmentInfo{
		EnrollmentStatus: dto.EnrollmentNoSpots,
		CanEnroll:        false,
		ButtonText:       "Sin Cupos",
		ButtonDisabled:   true,
		ButtonType:       "danger",
	}
}

func (s *DirectoryService) project(w *model.WorkshopModel, viewer viewerState) dto.WorkshopResponse {
	resp := dto.ToWorkshopResponse(w)

	enrolledInThis := viewer.WorkshopID != nil && *viewer.WorkshopID == w.WorkshopID
	resp.IsUserEnrolled = enrolledInThis
	resp.EnrollmentInfo = determineEnrollmentStatus(
		viewer.Authenticated,
		viewer.HasPayment,
		enrolledInThis,
		resp.AvailableSpots,
	)
	return resp
}

// ListWorkshops: todos los talleres activos, más recientes primero.
// viewerID 0 = anónimo.
func (s *DirectoryService) ListWorkshops(ctx context.Context, viewerID int64) ([]dto.WorkshopResponse, error) {
	db := s.DB.WithContext(ctx)

	var workshops []model.WorkshopModel
	if err := db.Where("status = ?", model.StatusActive).
		Order("created_at DESC").
		Find(&workshops).Error; err != nil {
		return nil, err
	}

	viewer := s.loadViewer(db, viewerID)

	out := make([]dto.WorkshopResponse, 0, len(workshops))
	for i := range workshops {
		out = append(out, s.project(&workshops[i], viewer))
	}
	return out, nil
}

// GetWorkshop: detalle de un taller activo, con su agenda.
func (s *DirectoryService) GetWorkshop(ctx context.Context, id, viewerID int64) (*dto.WorkshopResponse, error) {
	db := s.DB.WithContext(ctx)

	var workshop model.WorkshopModel
	if err := db.First(&workshop, "workshop_id = ? AND status = ?", id, model.StatusActive).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("Taller no encontrado")
		}
		return nil, err
	}

	viewer := s.loadViewer(db, viewerID)
	resp := s.project(&workshop, viewer)

	var schedules []scheduleModel.ScheduleModel
	if err := db.Where("workshop_id = ?", id).
		Order("assigned_date ASC, start_time ASC").
		Find(&schedules).Error; err != nil {
		log.Printf("[ERROR] directory: agenda del taller %d: %v", id, err)
	} else {
		resp.Schedules = dto.ToScheduleSummaries(schedules)
	}

	return &resp, nil
}

// ListAvailable: talleres activos con lugares (o cupo ilimitado), por nombre.
func (s *DirectoryService) ListAvailable(ctx context.Context, viewerID int64) ([]dto.WorkshopResponse, error) {
	db := s.DB.WithContext(ctx)

	var workshops []model.WorkshopModel
	if err := db.Where("status = ?", model.StatusActive).
		Where("spots_max IS NULL OR spots_max = 0 OR spots_max > spots_occupied").
		Order("name_workshop ASC").
		Find(&workshops).Error; err != nil {
		return nil, err
	}

	viewer := s.loadViewer(db, viewerID)

	out := make([]dto.WorkshopResponse, 0, len(workshops))
	for i := range workshops {
		out = append(out, s.project(&workshops[i], viewer))
	}
	return out, nil
}
