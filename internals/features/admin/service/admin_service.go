package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/admin/dto"
	attendanceModel "github.com/presbond/congreso-back/internals/features/attendance/model"
	gameModel "github.com/presbond/congreso-back/internals/features/game/model"
	paymentModel "github.com/presbond/congreso-back/internals/features/payments/model"
	paymentService "github.com/presbond/congreso-back/internals/features/payments/service"
	authModel "github.com/presbond/congreso-back/internals/features/users/auth/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
	helper "github.com/presbond/congreso-back/internals/helpers"
)

/* =========================================================
   Admin Directory
========================================================= */

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

type ListUsersArgs struct {
	Q      string
	Filter string
	Grade  string
	Group  string
	Paging helper.Paging
}

// searchColumns: campos de texto donde aplica la búsqueda libre.
var searchColumns = []string{
	"name_user", "paternal_surname", "maternal_surname",
	"email", "phone", "matricula", "educational_program", "provenance",
}

// Etiquetas de filtro plano que entiende el panel.
var typeFilterLabels = map[string]bool{
	"estudiante": true, "docente": true, "ponente/tallerista": true,
	"externo": true, "admin": true,
}

var statusFilterLabels = map[string]string{
	"activo":     userModel.StatusActive,
	"inactivo":   userModel.StatusInactive,
	"suspendido": userModel.StatusSuspended,
	"eliminado":  userModel.StatusDeleted,
}

// parseFilterKV separa "status:active,type:Docente" en pares clave/valor.
func parseFilterKV(filter string) map[string]string {
	out := map[string]string{}
	if !strings.Contains(filter, ":") {
		return out
	}
	for _, part := range strings.Split(filter, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(kv[0]))
		v := strings.TrimSpace(kv[1])
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

// applySearchTerms arma AND de términos; cada término busca en varios campos
// (OR) más grado/grupo si el término parece "2A".
func applySearchTerms(db *gorm.DB, q string) *gorm.DB {
	for _, term := range strings.Fields(q) {
		pattern := "%" + strings.ToLower(term) + "%"
		group := db.Session(&gorm.Session{NewDB: true})
		or := group.Where(fmt.Sprintf("LOWER(%s) LIKE ?", searchColumns[0]), pattern)
		for _, col := range searchColumns[1:] {
			or = or.Or(fmt.Sprintf("LOWER(%s) LIKE ?", col), pattern)
		}
		if g := helper.NormalizeGrade(term); g != "" {
			or = or.Or("grade = ?", g)
		}
		if g := helper.NormalizeGroup(term); g != "" {
			or = or.Or("group_user = ?", g)
		}
		db = db.Where(or)
	}
	return db
}

func (s *AdminService) buildUserFilter(args ListUsersArgs) *gorm.DB {
	q := s.DB.Model(&userModel.UserModel{})

	effectiveFilter := strings.TrimSpace(args.Filter)
	if effectiveFilter == "Todos" {
		effectiveFilter = ""
	}

	gradeNorm, groupNorm := "", ""
	if args.Grade != "" {
		if strings.Contains(args.Grade, "10") {
			gradeNorm = "10"
		} else {
			gradeNorm, groupNorm = helper.SplitGradeGroup(args.Grade)
		}
	}
	if args.Group != "" {
		groupNorm = helper.NormalizeGroup(args.Group)
	}

	if args.Q != "" {
		q = applySearchTerms(q, args.Q)
	}
	if gradeNorm != "" {
		q = q.Where("grade = ?", gradeNorm)
	}
	if groupNorm != "" {
		q = q.Where("group_user = ?", groupNorm)
	}

	if effectiveFilter != "" && !strings.Contains(effectiveFilter, ":") {
		low := strings.ToLower(effectiveFilter)
		switch {
		case typeFilterLabels[low]:
			q = q.Joins("LEFT JOIN type_user ON type_user.type_user_id = users.type_user_id").
				Where("LOWER(type_user.name_type) = ?", low)
		case statusFilterLabels[low] != "":
			q = q.Where("users.status = ?", statusFilterLabels[low])
		case low == "pagado":
			q = q.Where("status_event = ?", true)
		case low == "no pagado":
			q = q.Where("status_event = ?", false)
		}
	}

	parsed := parseFilterKV(effectiveFilter)
	if v, ok := parsed["status"]; ok {
		v = strings.ToLower(v)
		switch v {
		case userModel.StatusActive, userModel.StatusInactive, userModel.StatusSuspended, userModel.StatusDeleted:
			q = q.Where("users.status = ?", v)
		}
	}
	if v, ok := parsed["type"]; ok {
		q = q.Joins("LEFT JOIN type_user ON type_user.type_user_id = users.type_user_id").
			Where("LOWER(type_user.name_type) = ?", strings.ToLower(v))
	}
	for _, key := range []string{"payment", "event"} {
		switch parsed[key] {
		case "true":
			q = q.Where("status_event = ?", true)
		case "false":
			q = q.Where("status_event = ?", false)
		}
	}

	return q
}

func (s *AdminService) ListUsers(args ListUsersArgs) (*dto.ListUsersResponse, error) {
	var total int64
	if err := s.DB.Model(&userModel.UserModel{}).Count(&total).Error; err != nil {
		return nil, err
	}

	filtered := s.buildUserFilter(args)
	var totalFiltro int64
	if err := filtered.Count(&totalFiltro).Error; err != nil {
		return nil, err
	}

	var rows []userModel.UserModel
	if err := s.buildUserFilter(args).
		Preload("TypeUser").
		Order("users.user_id DESC").
		Offset(args.Paging.Offset).
		Limit(args.Paging.Limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	data := make([]dto.AdminUserRow, 0, len(rows))
	for i := range rows {
		data = append(data, projectAdminRow(&rows[i]))
	}

	return &dto.ListUsersResponse{
		Total:       total,
		TotalFiltro: totalFiltro,
		Page:        args.Paging.Page,
		PageSize:    args.Paging.Limit,
		Data:        data,
	}, nil
}

func projectAdminRow(u *userModel.UserModel) dto.AdminUserRow {
	code := fmt.Sprintf("%d", u.UserID)
	if u.Matricula != nil && *u.Matricula != "" {
		code = *u.Matricula
	}
	grade, group := "", ""
	if u.Grade != nil {
		grade = helper.NormalizeGrade(*u.Grade)
	}
	if u.GroupUser != nil {
		group = helper.NormalizeGroup(*u.GroupUser)
	}
	paymentStatus := "No pagado"
	if u.StatusEvent {
		paymentStatus = "Pagado"
	}
	return dto.AdminUserRow{
		ID:                 u.UserID,
		Name:               u.FullName(),
		Email:              u.Email,
		Phone:              u.Phone,
		Code:               code,
		Provenance:         u.Provenance,
		EducationalProgram: u.EducationalProgram,
		Grade:              grade,
		Group:              group,
		Type:               u.TypeName(),
		IsActive:           u.Status == userModel.StatusActive,
		EventEnabled:       u.StatusEvent,
		StatusEvent:        u.StatusEvent,
		IsBadgePrinted:     u.IsBadgePrinted,
		PaymentStatus:      paymentStatus,
	}
}

/* =========================================================
   Filter options
========================================================= */

func (s *AdminService) FilterOptions() (*dto.FilterOptions, error) {
	var gradesRaw, groupsRaw []string
	if err := s.DB.Model(&userModel.UserModel{}).
		Where("grade IS NOT NULL AND status <> ?", userModel.StatusDeleted).
		Distinct().Pluck("grade", &gradesRaw).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&userModel.UserModel{}).
		Where("group_user IS NOT NULL AND status <> ?", userModel.StatusDeleted).
		Distinct().Pluck("group_user", &groupsRaw).Error; err != nil {
		return nil, err
	}

	gradeSet, groupSet := map[string]bool{}, map[string]bool{}
	for _, g := range gradesRaw {
		if norm := helper.NormalizeGrade(g); norm != "" {
			gradeSet[norm] = true
		}
	}
	for _, g := range groupsRaw {
		if norm := helper.NormalizeGroup(g); norm != "" {
			groupSet[norm] = true
		}
	}

	grades := make([]string, 0, len(gradeSet))
	for g := range gradeSet {
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool {
		return len(grades[i]) < len(grades[j]) || (len(grades[i]) == len(grades[j]) && grades[i] < grades[j])
	})

	groups := make([]string, 0, len(groupSet))
	for g := range groupSet {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var types []userModel.TypeUserModel
	if err := s.DB.Find(&types).Error; err != nil {
		return nil, err
	}
	typeOpts := make([]dto.TypeOption, 0, len(types))
	for _, t := range types {
		typeOpts = append(typeOpts, dto.TypeOption{ID: t.TypeUserID, Name: t.NameType})
	}

	return &dto.FilterOptions{
		Grades: grades,
		Groups: groups,
		Types:  typeOpts,
		Statuses: []string{
			userModel.StatusActive, userModel.StatusInactive,
			userModel.StatusSuspended, userModel.StatusDeleted,
		},
		EventStatuses: []bool{true, false},
	}, nil
}

/* =========================================================
   Activation (one + bulk)
========================================================= */

func (s *AdminService) SetUserEventActivation(userID int64, req *dto.ActivationRequest) (*dto.ActivationResult, error) {
	var user userModel.UserModel
	if err := s.DB.Preload("TypeUser").First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
	}

	if user.Status == userModel.StatusDeleted || user.Status == userModel.StatusSuspended {
		return nil, fiber.NewError(fiber.StatusForbidden,
			fmt.Sprintf("No puedes modificar un usuario %s", user.Status))
	}

	if req.Activate && !req.Force {
		if !paymentService.HasApprovedPayment(s.DB, user.UserID) {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				"No puedes activar sin un pago válido. Usa force:true si deseas forzar.")
		}
	}

	finalStatusEvent := req.Activate
	if req.StatusEvent != nil {
		finalStatusEvent = *req.StatusEvent
	}

	updates := map[string]interface{}{"status_event": finalStatusEvent}
	if req.Activate {
		updates["status"] = userModel.StatusActive
	}
	if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	message := "Usuario desactivado"
	if req.Activate {
		if req.Force {
			message = "Usuario activado (manual)"
		} else {
			message = "Usuario activado (con pago verificado)"
		}
	}

	paymentStatus := "No pagado"
	if user.StatusEvent || paymentService.HasApprovedPayment(s.DB, user.UserID) {
		paymentStatus = "Pagado"
	}

	return &dto.ActivationResult{
		ID:            user.UserID,
		Name:          user.FullName(),
		Email:         user.Email,
		Status:        user.Status,
		EventEnabled:  user.StatusEvent,
		StatusEvent:   user.StatusEvent,
		PaymentStatus: paymentStatus,
		Message:       message,
	}, nil
}

func (s *AdminService) SetUsersEventActivationBulk(req *dto.BulkActivationRequest) ([]dto.ActivationResult, error) {
	if len(req.IDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Debes enviar al menos un ID")
	}

	var records []userModel.UserModel
	if err := s.DB.Select("user_id", "status").
		Where("user_id IN ?", req.IDs).
		Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Usuarios no encontrados")
	}

	blocked := 0
	for _, r := range records {
		if r.Status == userModel.StatusDeleted || r.Status == userModel.StatusSuspended {
			blocked++
		}
	}
	if blocked > 0 && !req.Force {
		return nil, fiber.NewError(fiber.StatusForbidden,
			fmt.Sprintf("Hay %d usuarios suspendidos o eliminados", blocked))
	}

	if req.Activate && !req.Force {
		var paidIDs []int64
		if err := s.DB.Model(&paymentModel.PaymentModel{}).
			Where("user_id IN ? AND LOWER(payment_status) = ? AND LOWER(status) = ?",
				req.IDs, paymentModel.PaymentStatusPaid, paymentModel.StatusComplete).
			Distinct().Pluck("user_id", &paidIDs).Error; err != nil {
			return nil, err
		}
		paidSet := map[int64]bool{}
		for _, id := range paidIDs {
			paidSet[id] = true
		}
		withoutPay := 0
		for _, id := range req.IDs {
			if !paidSet[id] {
				withoutPay++
			}
		}
		if withoutPay > 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("No puedes activar %d usuario(s) sin pago. Usa force:true.", withoutPay))
		}
	}

	finalStatusEvent := req.Activate
	if req.StatusEvent != nil {
		finalStatusEvent = *req.StatusEvent
	}

	updates := map[string]interface{}{"status_event": finalStatusEvent}
	if req.Activate {
		updates["status"] = userModel.StatusActive
	}
	if err := s.DB.Model(&userModel.UserModel{}).
		Where("user_id IN ? AND status NOT IN ?", req.IDs,
			[]string{userModel.StatusDeleted, userModel.StatusSuspended}).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	var after []userModel.UserModel
	if err := s.DB.Where("user_id IN ?", req.IDs).Find(&after).Error; err != nil {
		return nil, err
	}

	results := make([]dto.ActivationResult, 0, len(after))
	for _, u := range after {
		paymentStatus := "No pagado"
		if u.StatusEvent {
			paymentStatus = "Pagado"
		}
		results = append(results, dto.ActivationResult{
			ID:            u.UserID,
			EventEnabled:  u.StatusEvent,
			StatusEvent:   u.StatusEvent,
			PaymentStatus: paymentStatus,
		})
	}
	return results, nil
}

/* =========================================================
   Delete (cascade)
========================================================= */

// DeleteUser borra al usuario y todo lo que cuelga de él. El borrado es
// físico: el panel lo usa para limpiar registros de prueba.
func (s *AdminService) DeleteUser(userID int64) error {
	var user userModel.UserModel
	if err := s.DB.Select("user_id").First(&user, "user_id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&authModel.VerificationTokenModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&attendanceModel.AttendanceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&gameModel.GameScoreModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&paymentModel.PaymentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&userModel.UserModel{}, "user_id = ?", userID).Error
	})
}
