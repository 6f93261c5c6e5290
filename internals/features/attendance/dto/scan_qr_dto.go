package dto

import "time"

// ScanQrRequest: body de POST /admin/attendance/scan-qr. El front puede
// mandar qrValue o token, cualquiera de los dos.
type ScanQrRequest struct {
	QrValue    string `json:"qrValue"`
	Token      string `json:"token"`
	WorkshopID int64  `json:"workshopId"`
}

func (r *ScanQrRequest) RawValue() string {
	if r.QrValue != "" {
		return r.QrValue
	}
	return r.Token
}

type ScannedUser struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Matricula   *string `json:"matricula,omitempty"`
	Type        string  `json:"type"`
	StatusEvent bool    `json:"status_event"`
}

type ScannedWorkshop struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Building  string `json:"building,omitempty"`
	Classroom string `json:"classroom,omitempty"`
	Category  string `json:"category,omitempty"`
}

// ScanQrResponse: status "ok" en el primer registro, "already_registered" en
// repeticiones del mismo (token, taller) — siempre con el mismo attendanceId.
type ScanQrResponse struct {
	Status       string           `json:"status"`
	Message      string           `json:"message"`
	AttendanceID int64            `json:"attendanceId"`
	At           time.Time        `json:"at"`
	User         ScannedUser      `json:"user"`
	Workshop     *ScannedWorkshop `json:"workshop"`
}
