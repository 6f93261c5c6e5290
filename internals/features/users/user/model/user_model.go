package model

import (
	"strings"
	"time"
)

// Estados de cuenta (enum status_user en la base)
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusDeleted   = "deleted"
)

// UserModel representa la tabla users.
//
// workshop_id es una FK nullable hacia workshop: un usuario tiene a lo más un
// taller, y la inscripción es quien la setea (nunca se limpia sola, no existe
// operación de des-inscripción).
type UserModel struct {
	UserID             int64   `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	NameUser           string  `gorm:"column:name_user;size:100;not null" json:"name_user"`
	PaternalSurname    string  `gorm:"column:paternal_surname;size:100" json:"paternal_surname"`
	MaternalSurname    string  `gorm:"column:maternal_surname;size:100" json:"maternal_surname"`
	Email              string  `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password           string  `gorm:"column:password;not null" json:"-"`
	Phone              *string `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Matricula          *string `gorm:"column:matricula;size:30;uniqueIndex" json:"matricula,omitempty"`
	EducationalProgram *string `gorm:"column:educational_program;size:150" json:"educational_program,omitempty"`
	Provenance         *string `gorm:"column:provenance;size:150" json:"provenance,omitempty"`
	Grade              *string `gorm:"column:grade;size:10" json:"grade,omitempty"`
	GroupUser          *string `gorm:"column:group_user;size:10" json:"group_user,omitempty"`

	Status string `gorm:"column:status;type:varchar(20);not null;default:'inactive'" json:"status"`

	// status_event: habilitado para el evento (pago verificado o activación
	// manual de un admin). El motor de inscripción sólo LEE este flag.
	StatusEvent    bool `gorm:"column:status_event;not null;default:false" json:"status_event"`
	IsBadgePrinted bool `gorm:"column:is_badge_printed;not null;default:false" json:"is_badge_printed"`

	TypeUserID *int64         `gorm:"column:type_user_id;index" json:"type_user_id,omitempty"`
	TypeUser   *TypeUserModel `gorm:"foreignKey:TypeUserID;references:TypeUserID" json:"type_user,omitempty"`

	WorkshopID *int64 `gorm:"column:workshop_id;index" json:"workshop_id,omitempty"`

	GoogleID *string `gorm:"column:google_id;size:255;uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// FullName arma "nombre paterno materno" omitiendo vacíos.
func (u *UserModel) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.NameUser, u.PaternalSurname, u.MaternalSurname} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// TypeName devuelve el tipo de usuario o "Externo" si no tiene.
func (u *UserModel) TypeName() string {
	if u.TypeUser != nil && u.TypeUser.NameType != "" {
		return u.TypeUser.NameType
	}
	return "Externo"
}

// TypeUserModel representa la tabla type_user (Estudiante, Docente, etc.)
type TypeUserModel struct {
	TypeUserID int64  `gorm:"column:type_user_id;primaryKey;autoIncrement" json:"type_user_id"`
	NameType   string `gorm:"column:name_type;size:50;not null;uniqueIndex" json:"name_type"`
}

func (TypeUserModel) TableName() string {
	return "type_user"
}
