package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/schedule/dto"
	"github.com/presbond/congreso-back/internals/features/schedule/model"
	workshopModel "github.com/presbond/congreso-back/internals/features/workshops/model"
)

type ScheduleService struct {
	DB *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{DB: db}
}

// ScheduleItem es la fila de agenda que consume el frontend: la sesión más
// el nombre del taller cuando la sesión pertenece a uno.
type ScheduleItem struct {
	model.ScheduleModel
	WorkshopName string `json:"workshop_name,omitempty"`
}

func parseAssignedDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Fecha inválida, usa formato YYYY-MM-DD")
	}
	return &parsed, nil
}

func (s *ScheduleService) attachWorkshopNames(items []ScheduleItem) error {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.WorkshopID != nil {
			ids = append(ids, *item.WorkshopID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var workshops []workshopModel.WorkshopModel
	if err := s.DB.Where("workshop_id IN ?", ids).Find(&workshops).Error; err != nil {
		return err
	}
	names := make(map[int64]string, len(workshops))
	for _, w := range workshops {
		names[w.WorkshopID] = w.NameWorkshop
	}
	for i := range items {
		if items[i].WorkshopID != nil {
			items[i].WorkshopName = names[*items[i].WorkshopID]
		}
	}
	return nil
}

// List devuelve la agenda completa ordenada por fecha y hora de inicio.
func (s *ScheduleService) List() ([]ScheduleItem, error) {
	var rows []model.ScheduleModel
	if err := s.DB.Order("assigned_date ASC, start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ScheduleItem, len(rows))
	for i, row := range rows {
		items[i] = ScheduleItem{ScheduleModel: row}
	}
	if err := s.attachWorkshopNames(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ScheduleService) GetByID(id int64) (*ScheduleItem, error) {
	var row model.ScheduleModel
	if err := s.DB.First(&row, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sesión no encontrada")
		}
		return nil, err
	}

	items := []ScheduleItem{{ScheduleModel: row}}
	if err := s.attachWorkshopNames(items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// ListByWorkshop devuelve las sesiones de un taller concreto.
func (s *ScheduleService) ListByWorkshop(workshopID int64) ([]ScheduleItem, error) {
	var workshop workshopModel.WorkshopModel
	if err := s.DB.First(&workshop, "workshop_id = ?", workshopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Taller no encontrado")
		}
		return nil, err
	}

	var rows []model.ScheduleModel
	if err := s.DB.
		Where("workshop_id = ?", workshopID).
		Order("assigned_date ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ScheduleItem, len(rows))
	for i, row := range rows {
		items[i] = ScheduleItem{ScheduleModel: row, WorkshopName: workshop.NameWorkshop}
	}
	return items, nil
}

// UpcomingEvents lista las conferencias (sesiones sin taller) desde hoy.
func (s *ScheduleService) UpcomingEvents(limit int) ([]ScheduleItem, error) {
	return s.upcoming(limit, "workshop_id IS NULL")
}

// UpcomingWorkshops lista las próximas sesiones de taller desde hoy.
func (s *ScheduleService) UpcomingWorkshops(limit int) ([]ScheduleItem, error) {
	return s.upcoming(limit, "workshop_id IS NOT NULL")
}

func (s *ScheduleService) upcoming(limit int, cond string) ([]ScheduleItem, error) {
	if limit < 1 {
		limit = 5
	}
	today := time.Now().Format("2006-01-02")

	var rows []model.ScheduleModel
	if err := s.DB.
		Where(cond).
		Where("assigned_date >= ?", today).
		Order("assigned_date ASC, start_time ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ScheduleItem, len(rows))
	for i, row := range rows {
		items[i] = ScheduleItem{ScheduleModel: row}
	}
	if err := s.attachWorkshopNames(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ScheduleService) Create(req *dto.ScheduleRequest) (*ScheduleItem, error) {
	assigned, err := parseAssignedDate(req.AssignedDate)
	if err != nil {
		return nil, err
	}
	if req.WorkshopID != nil {
		var count int64
		if err := s.DB.Model(&workshopModel.WorkshopModel{}).
			Where("workshop_id = ?", *req.WorkshopID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("El taller %d no existe", *req.WorkshopID))
		}
	}

	row := model.ScheduleModel{
		NameConference: req.NameConference,
		DayWeek:        req.DayWeek,
		AssignedDate:   assigned,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		WorkshopID:     req.WorkshopID,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, err
	}
	return s.GetByID(row.ScheduleID)
}

func (s *ScheduleService) Update(id int64, req *dto.ScheduleRequest) (*ScheduleItem, error) {
	var row model.ScheduleModel
	if err := s.DB.First(&row, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sesión no encontrada")
		}
		return nil, err
	}

	assigned, err := parseAssignedDate(req.AssignedDate)
	if err != nil {
		return nil, err
	}
	if req.WorkshopID != nil {
		var count int64
		if err := s.DB.Model(&workshopModel.WorkshopModel{}).
			Where("workshop_id = ?", *req.WorkshopID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("El taller %d no existe", *req.WorkshopID))
		}
	}

	updates := map[string]interface{}{
		"name_conference": req.NameConference,
		"day_week":        req.DayWeek,
		"assigned_date":   assigned,
		"start_time":      req.StartTime,
		"end_time":        req.EndTime,
		"workshop_id":     req.WorkshopID,
	}
	if err := s.DB.Model(&row).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ScheduleService) Delete(id int64) error {
	res := s.DB.Delete(&model.ScheduleModel{}, "schedule_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Sesión no encontrada")
	}
	return nil
}
