package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/finance/dto"
	"github.com/presbond/congreso-back/internals/features/finance/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

type FinanceService struct {
	DB *gorm.DB
}

func NewFinanceService(db *gorm.DB) *FinanceService {
	return &FinanceService{DB: db}
}

/* =========================================================
   Summary
========================================================= */

func (s *FinanceService) Summary(ticketPrice int64) (*dto.SummaryResponse, error) {
	if ticketPrice <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "El precio del evento debe ser mayor a 0.")
	}

	var paidUsers int64
	if err := s.DB.Model(&userModel.UserModel{}).
		Where("status_event = ?", true).
		Count(&paidUsers).Error; err != nil {
		return nil, err
	}

	sumByType := func(movementType string) (int64, error) {
		var total int64
		err := s.DB.Model(&model.FinanceMovementModel{}).
			Where("movement_type = ?", movementType).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
		return total, err
	}

	income, err := sumByType(model.MovementIncome)
	if err != nil {
		return nil, err
	}
	expense, err := sumByType(model.MovementExpense)
	if err != nil {
		return nil, err
	}

	ticketsRevenue := paidUsers * ticketPrice
	return &dto.SummaryResponse{
		PaidUsersCount: paidUsers,
		TicketPrice:    ticketPrice,
		TicketsRevenue: ticketsRevenue,
		TotalIncome:    income,
		TotalExpense:   expense,
		Balance:        ticketsRevenue + income - expense,
	}, nil
}

/* =========================================================
   Categories
========================================================= */

func (s *FinanceService) ListCategories() ([]dto.CategoryResponse, error) {
	var categories []model.FinanceCategoryModel
	if err := s.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{
			ID:          c.FinanceCategoryID,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	return out, nil
}

func (s *FinanceService) CreateCategory(req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "El nombre de la categoría es obligatorio.")
	}

	cat := model.FinanceCategoryModel{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.DB.Create(&cat).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, fiber.NewError(fiber.StatusConflict, "Ya existe una categoría con ese nombre.")
		}
		return nil, err
	}
	return &dto.CategoryResponse{ID: cat.FinanceCategoryID, Name: cat.Name, Description: cat.Description}, nil
}

func (s *FinanceService) UpdateCategory(id int64, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "El nombre de la categoría es obligatorio.")
	}

	var cat model.FinanceCategoryModel
	if err := s.DB.First(&cat, "finance_category_id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "La categoría no existe.")
	}

	cat.Name = name
	cat.Description = strings.TrimSpace(req.Description)
	if err := s.DB.Save(&cat).Error; err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: cat.FinanceCategoryID, Name: cat.Name, Description: cat.Description}, nil
}

// DeleteCategory falla si la categoría tiene movimientos asociados.
func (s *FinanceService) DeleteCategory(id int64) error {
	var cat model.FinanceCategoryModel
	if err := s.DB.First(&cat, "finance_category_id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "La categoría no existe.")
	}

	var count int64
	if err := s.DB.Model(&model.FinanceMovementModel{}).
		Where("finance_category_id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("No se puede eliminar la categoría porque tiene %d movimientos asociados.", count))
	}

	return s.DB.Delete(&cat).Error
}

/* =========================================================
   Movements
========================================================= */

type ListMovementsArgs struct {
	MovementType string // ingreso | egreso | "" (todos)
	CategoryID   int64
}

func (s *FinanceService) ListMovements(args ListMovementsArgs) ([]dto.MovementResponse, error) {
	q := s.DB.Model(&model.FinanceMovementModel{})
	if args.MovementType != "" && args.MovementType != "all" {
		q = q.Where("movement_type = ?", args.MovementType)
	}
	if args.CategoryID > 0 {
		q = q.Where("finance_category_id = ?", args.CategoryID)
	}

	var movements []model.FinanceMovementModel
	if err := q.Order("movement_date DESC").Find(&movements).Error; err != nil {
		return nil, err
	}

	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		resp, err := s.projectMovement(&movements[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *FinanceService) projectMovement(m *model.FinanceMovementModel) (*dto.MovementResponse, error) {
	resp := dto.MovementResponse{
		ID:            m.FinanceMovementID,
		MovementType:  m.MovementType,
		Amount:        m.Amount,
		Description:   m.Description,
		PaymentMethod: m.PaymentMethod,
		MovementDate:  m.MovementDate,
	}
	if m.FinanceCategoryID != nil {
		resp.FinanceCategoryID = *m.FinanceCategoryID
		var cat model.FinanceCategoryModel
		if err := s.DB.First(&cat, "finance_category_id = ?", *m.FinanceCategoryID).Error; err == nil {
			resp.Category = &dto.CategoryResponse{ID: cat.FinanceCategoryID, Name: cat.Name}
		}
	}
	if m.UserID != nil {
		var user userModel.UserModel
		if err := s.DB.First(&user, "user_id = ?", *m.UserID).Error; err == nil {
			resp.User = &dto.MovementUser{ID: user.UserID, Name: user.FullName(), Email: user.Email}
		}
	}
	return &resp, nil
}

func (s *FinanceService) CreateMovement(req *dto.MovementRequest) (*dto.MovementResponse, error) {
	var cat model.FinanceCategoryModel
	if err := s.DB.First(&cat, "finance_category_id = ?", req.FinanceCategoryID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La categoría no existe.")
	}

	m := model.FinanceMovementModel{
		MovementType:      req.MovementType,
		Amount:            req.Amount,
		Description:       strings.TrimSpace(req.Description),
		PaymentMethod:     req.PaymentMethod,
		FinanceCategoryID: &req.FinanceCategoryID,
		UserID:            req.UserID,
		MovementDate:      time.Now(),
	}
	if err := s.DB.Create(&m).Error; err != nil {
		return nil, err
	}
	return s.projectMovement(&m)
}

func (s *FinanceService) UpdateMovement(id int64, req *dto.MovementRequest) (*dto.MovementResponse, error) {
	var m model.FinanceMovementModel
	if err := s.DB.First(&m, "finance_movement_id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "El movimiento no existe.")
	}

	m.MovementType = req.MovementType
	m.Amount = req.Amount
	m.Description = strings.TrimSpace(req.Description)
	m.PaymentMethod = req.PaymentMethod
	m.FinanceCategoryID = &req.FinanceCategoryID
	m.UserID = req.UserID
	if err := s.DB.Save(&m).Error; err != nil {
		return nil, err
	}
	return s.projectMovement(&m)
}

func (s *FinanceService) DeleteMovement(id int64) error {
	res := s.DB.Delete(&model.FinanceMovementModel{}, "finance_movement_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "El movimiento no existe.")
	}
	return nil
}
