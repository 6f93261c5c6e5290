package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// WorkshopModel representa la tabla workshop.
//
// spots_occupied es un contador desnormalizado: NO es fuente de verdad. La
// fuente de verdad es COUNT(users WHERE workshop_id = este taller) y el motor
// de inscripción lo recalcula (nunca incrementa) dentro de la misma
// transacción. spots_max NULL o 0 significa cupo ilimitado.
type WorkshopModel struct {
	WorkshopID     int64  `gorm:"column:workshop_id;primaryKey;autoIncrement" json:"workshop_id"`
	NameWorkshop   string `gorm:"column:name_workshop;size:255;not null" json:"name_workshop"`
	Descript       string `gorm:"column:descript;type:text" json:"descript"`
	SpotsMax       *int   `gorm:"column:spots_max" json:"spots_max,omitempty"`
	SpotsOccupied  int    `gorm:"column:spots_occupied;not null;default:0" json:"spots_occupied"`
	Building       string `gorm:"column:building;size:100" json:"building"`
	Classroom      string `gorm:"column:classroom;size:100" json:"classroom"`
	Category       string `gorm:"column:category;size:100" json:"category"`
	Level          string `gorm:"column:level;size:50" json:"level"`
	InstructorName string `gorm:"column:instructor_name;size:255" json:"instructor_name"`

	// Instructor opcionalmente ligado a un usuario registrado; el nombre en
	// columna tiene prioridad sobre el nombre del usuario relacionado.
	InstructorUserID *int64 `gorm:"column:instructor_user_id" json:"instructor_user_id,omitempty"`

	Tools pq.StringArray `gorm:"column:tools;type:text[]" json:"tools,omitempty"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WorkshopModel) TableName() string {
	return "workshop"
}

// Unlimited indica cupo ilimitado (spots_max NULL o 0).
func (w *WorkshopModel) Unlimited() bool {
	return w.SpotsMax == nil || *w.SpotsMax == 0
}

// MaxSpots devuelve spots_max normalizado (0 = ilimitado).
func (w *WorkshopModel) MaxSpots() int {
	if w.SpotsMax == nil {
		return 0
	}
	return *w.SpotsMax
}
