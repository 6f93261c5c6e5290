package model

import "time"

// ScheduleModel: agenda del congreso (conferencias y sesiones de taller).
type ScheduleModel struct {
	ScheduleID     int64      `gorm:"column:schedule_id;primaryKey;autoIncrement" json:"schedule_id"`
	NameConference string     `gorm:"column:name_conference;size:255;not null" json:"name_conference"`
	DayWeek        string     `gorm:"column:day_week;size:20" json:"day_week"`
	AssignedDate   *time.Time `gorm:"column:assigned_date;type:date" json:"assigned_date,omitempty"`
	StartTime      string     `gorm:"column:start_time;size:8" json:"start_time"`
	EndTime        string     `gorm:"column:end_time;size:8" json:"end_time"`
	WorkshopID     *int64     `gorm:"column:workshop_id;index" json:"workshop_id,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ScheduleModel) TableName() string {
	return "schedule"
}
