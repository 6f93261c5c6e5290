package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/attendance/model"
	scheduleModel "github.com/presbond/congreso-back/internals/features/schedule/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	workshopModel "github.com/presbond/congreso-back/internals/features/workshops/model"
)

type WorkshopOption struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Building  string `json:"building,omitempty"`
	Classroom string `json:"classroom,omitempty"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status"`

	Schedules []ScheduleOption `json:"schedules"`
}

type ScheduleOption struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Date      *time.Time `json:"date,omitempty"`
	StartTime string     `json:"start_time,omitempty"`
	EndTime   string     `json:"end_time,omitempty"`
}

// ListWorkshopsForAttendance: talleres/eventos para el selector del front.
func (s *AttendanceService) ListWorkshopsForAttendance(ctx context.Context) ([]WorkshopOption, error) {
	db := s.DB.WithContext(ctx)

	var workshops []workshopModel.WorkshopModel
	if err := db.Order("name_workshop ASC").Find(&workshops).Error; err != nil {
		return nil, err
	}

	out := make([]WorkshopOption, 0, len(workshops))
	for i := range workshops {
		w := &workshops[i]

		var schedules []scheduleModel.ScheduleModel
		if err := db.Where("workshop_id = ?", w.WorkshopID).
			Order("assigned_date ASC, start_time ASC").
			Find(&schedules).Error; err != nil {
			return nil, err
		}

		opt := WorkshopOption{
			ID:        w.WorkshopID,
			Name:      w.NameWorkshop,
			Building:  w.Building,
			Classroom: w.Classroom,
			Category:  w.Category,
			Status:    w.Status,
			Schedules: make([]ScheduleOption, 0, len(schedules)),
		}
		for _, sch := range schedules {
			opt.Schedules = append(opt.Schedules, ScheduleOption{
				ID:        sch.ScheduleID,
				Name:      sch.NameConference,
				Date:      sch.AssignedDate,
				StartTime: sch.StartTime,
				EndTime:   sch.EndTime,
			})
		}
		out = append(out, opt)
	}
	return out, nil
}

type RosterUser struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Matricula      *string    `json:"matricula,omitempty"`
	StatusEvent    bool       `json:"status_event"`
	Type           string     `json:"type"`
	Attended       bool       `json:"attended"`
	AttendanceTime *time.Time `json:"attendance_time,omitempty"`
}

type WorkshopRoster struct {
	Workshop WorkshopOption          `json:"workshop"`
	All      []RosterUser            `json:"all"`
	ByType   map[string][]RosterUser `json:"byType"`
}

// ListWorkshopUsersByType: inscritos ∪ asistentes de un taller, con flag
// attended y hora de la última asistencia, agrupados por tipo de usuario.
// Incluye a quien pasó lista sin estar inscrito.
func (s *AttendanceService) ListWorkshopUsersByType(ctx context.Context, workshopID int64) (*WorkshopRoster, error) {
	db := s.DB.WithContext(ctx)

	var workshop workshopModel.WorkshopModel
	if err := db.First(&workshop, "workshop_id = ?", workshopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Taller / evento no encontrado.")
		}
		return nil, err
	}

	// 1) Asistencias del taller (vía qr_code.workshop_id)
	type attendanceRow struct {
		UserID   int64
		DateTime time.Time
	}
	var attRows []attendanceRow
	if err := db.Model(&model.AttendanceModel{}).
		Select("attendance.user_id, attendance.date_time").
		Joins("JOIN qr_code ON qr_code.qr_code_id = attendance.qr_code_id").
		Where("qr_code.workshop_id = ?", workshopID).
		Order("attendance.date_time ASC").
		Scan(&attRows).Error; err != nil {
		return nil, err
	}

	// 2) Inscritos al taller aunque aún no hayan pasado lista
	var enrolled []userModel.UserModel
	if err := db.Preload("TypeUser").
		Where("workshop_id = ?", workshopID).
		Find(&enrolled).Error; err != nil {
		return nil, err
	}

	type aggregated struct {
		user     *userModel.UserModel
		attended bool
		at       *time.Time
	}
	agg := make(map[int64]*aggregated)
	order := make([]int64, 0, len(enrolled))

	ensure := func(u *userModel.UserModel) *aggregated {
		if a, ok := agg[u.UserID]; ok {
			return a
		}
		a := &aggregated{user: u}
		agg[u.UserID] = a
		order = append(order, u.UserID)
		return a
	}

	for i := range enrolled {
		ensure(&enrolled[i])
	}

	// marcar los que pasaron lista (cargando a los no inscritos)
	for _, row := range attRows {
		a, ok := agg[row.UserID]
		if !ok {
			var u userModel.UserModel
			if err := db.Preload("TypeUser").First(&u, "user_id = ?", row.UserID).Error; err != nil {
				continue
			}
			a = ensure(&u)
		}
		a.attended = true
		t := row.DateTime
		if a.at == nil || t.After(*a.at) {
			a.at = &t
		}
	}

	roster := &WorkshopRoster{
		Workshop: WorkshopOption{
			ID:        workshop.WorkshopID,
			Name:      workshop.NameWorkshop,
			Building:  workshop.Building,
			Classroom: workshop.Classroom,
			Category:  workshop.Category,
			Status:    workshop.Status,
		},
		All:    make([]RosterUser, 0, len(order)),
		ByType: make(map[string][]RosterUser),
	}

	for _, id := range order {
		a := agg[id]
		ru := RosterUser{
			ID:             a.user.UserID,
			Name:           a.user.FullName(),
			Email:          a.user.Email,
			Matricula:      a.user.Matricula,
			StatusEvent:    a.user.StatusEvent,
			Type:           a.user.TypeName(),
			Attended:       a.attended,
			AttendanceTime: a.at,
		}
		roster.All = append(roster.All, ru)
		roster.ByType[ru.Type] = append(roster.ByType[ru.Type], ru)
	}

	return roster, nil
}
