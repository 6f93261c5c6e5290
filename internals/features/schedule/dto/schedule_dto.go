package dto

type ScheduleRequest struct {
	NameConference string `json:"name_conference" validate:"required,max=255"`
	DayWeek        string `json:"day_week" validate:"omitempty,max=20"`
	AssignedDate   string `json:"assigned_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime      string `json:"start_time" validate:"omitempty,max=8"`
	EndTime        string `json:"end_time" validate:"omitempty,max=8"`
	WorkshopID     *int64 `json:"workshop_id" validate:"omitempty,min=1"`
}
