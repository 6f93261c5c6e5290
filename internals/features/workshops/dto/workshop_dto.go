package dto

import (
	"time"

	scheduleModel "github.com/presbond/congreso-back/internals/features/schedule/model"
	"github.com/presbond/congreso-back/internals/features/workshops/model"
)

// Estados de inscripción por espectador (orden de prioridad, gana el primero):
// not_authenticated → already_enrolled → needs_payment → can_enroll → no_spots
const (
	EnrollmentNotAuthenticated = "not_authenticated"
	EnrollmentAlreadyEnrolled  = "already_enrolled"
	EnrollmentNeedsPayment     = "needs_payment"
	EnrollmentCanEnroll        = "can_enroll"
	EnrollmentNoSpots          = "no_spots"
)

// UnlimitedSpots es el sentinel de cupo ilimitado en available_spots.
const UnlimitedSpots = int(1<<31 - 1)

// EnrollmentInfo: estado + afordancias de UI que consume el front.
type EnrollmentInfo struct {
	EnrollmentStatus string `json:"enrollment_status"`
	CanEnroll        bool   `json:"can_enroll"`
	ButtonText       string `json:"button_text"`
	ButtonDisabled   bool   `json:"button_disabled"`
	ButtonType       string `json:"button_type"`
}

type ScheduleSummary struct {
	ScheduleID     int64      `json:"schedule_id"`
	NameConference string     `json:"name_conference"`
	DayWeek        string     `json:"day_week,omitempty"`
	AssignedDate   *time.Time `json:"assigned_date,omitempty"`
	StartTime      string     `json:"start_time,omitempty"`
	EndTime        string     `json:"end_time,omitempty"`
}

// WorkshopResponse: proyección de un taller con disponibilidad calculada y,
// para espectadores autenticados, su estado de inscripción.
type WorkshopResponse struct {
	WorkshopID     int64    `json:"workshop_id"`
	NameWorkshop   string   `json:"name_workshop"`
	Descript       string   `json:"descript"`
	SpotsMax       int      `json:"spots_max"`
	SpotsOccupied  int      `json:"spots_occupied"`
	AvailableSpots int      `json:"available_spots"`
	Building       string   `json:"building"`
	Classroom      string   `json:"classroom"`
	Category       string   `json:"category,omitempty"`
	Level          string   `json:"level,omitempty"`
	Tools          []string `json:"tools,omitempty"`
	InstructorName string   `json:"instructor_name"`
	Status         string   `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Schedules []ScheduleSummary `json:"schedules,omitempty"`

	IsUserEnrolled bool `json:"is_user_enrolled"`
	EnrollmentInfo
}

// CalcAvailable calcula los lugares disponibles de un taller.
func CalcAvailable(w *model.WorkshopModel) int {
	if w.Unlimited() {
		return UnlimitedSpots
	}
	avail := w.MaxSpots() - w.SpotsOccupied
	if avail < 0 {
		return 0
	}
	return avail
}

// ToWorkshopResponse proyecta el modelo sin estado de espectador; el caller
// rellena IsUserEnrolled/EnrollmentInfo después.
func ToWorkshopResponse(w *model.WorkshopModel) WorkshopResponse {
	return WorkshopResponse{
		WorkshopID:     w.WorkshopID,
		NameWorkshop:   w.NameWorkshop,
		Descript:       w.Descript,
		SpotsMax:       w.MaxSpots(),
		SpotsOccupied:  w.SpotsOccupied,
		AvailableSpots: CalcAvailable(w),
		Building:       w.Building,
		Classroom:      w.Classroom,
		Category:       w.Category,
		Level:          w.Level,
		Tools:          w.Tools,
		InstructorName: w.InstructorName,
		Status:         w.Status,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

func ToScheduleSummaries(rows []scheduleModel.ScheduleModel) []ScheduleSummary {
	out := make([]ScheduleSummary, 0, len(rows))
	for _, s := range rows {
		out = append(out, ScheduleSummary{
			ScheduleID:     s.ScheduleID,
			NameConference: s.NameConference,
			DayWeek:        s.DayWeek,
			AssignedDate:   s.AssignedDate,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
		})
	}
	return out
}

// EnrollWorkshopRequest: body de POST /users/me/workshop.
type EnrollWorkshopRequest struct {
	WorkshopID int64 `json:"workshopId" validate:"required,min=1"`
}
