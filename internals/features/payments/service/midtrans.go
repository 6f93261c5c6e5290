package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/configs"
	"github.com/presbond/congreso-back/internals/features/payments/dto"
	"github.com/presbond/congreso-back/internals/features/payments/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans se llama una vez en el bootstrap de la app.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

func itemName(alias string) string {
	s := strings.ToLower(strings.TrimSpace(alias))
	if s == "" {
		return "Concepto"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// resolvePrice mapea alias del catálogo → monto en centavos.
func resolvePrice(alias string) (int64, error) {
	switch strings.ToUpper(strings.TrimSpace(alias)) {
	case dto.PriceAliasCongreso:
		return configs.PriceCongreso, nil
	case dto.PriceAliasPaquetes, "PAQUETE":
		return configs.PricePaquetes, nil
	case dto.PriceAliasSouvenirs, "SOUVENIR":
		return configs.PriceSouvenirs, nil
	default:
		return 0, fmt.Errorf("precio no definido: %s", alias)
	}
}

/* =========================================================
   Checkout
========================================================= */

type CheckoutService struct {
	DB *gorm.DB
}

func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{DB: db}
}

// CreateCheckout genera la transacción Snap y persiste el Payment pendiente.
// El user_id viaja como order_id prefijado y en metadata, para que el webhook
// pueda activar al usuario correcto.
func (s *CheckoutService) CreateCheckout(ctx context.Context, user *userModel.UserModel, req *dto.CreateCheckoutRequest) (*dto.CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "items requerido y no puede estar vacío")
	}

	var total int64
	items := make([]midtrans.ItemDetails, 0, len(req.Items))
	for _, it := range req.Items {
		amount, err := resolvePrice(it.Price)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if it.Quantity < 1 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "quantity debe ser >= 1")
		}
		total += amount * int64(it.Quantity)
		items = append(items, midtrans.ItemDetails{
			ID:       strings.ToUpper(it.Price),
			Price:    amount,
			Qty:      int32(it.Quantity),
			Name:     itemName(it.Price),
			Category: "Congreso",
		})
	}

	orderID := uuid.NewString()
	email := req.CustomerEmail
	if email == "" {
		email = user.Email
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: total,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.NameUser,
			LName: strings.TrimSpace(user.PaternalSurname + " " + user.MaternalSurname),
			Email: email,
		},
		Items: &items,
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
	}

	resp, snapErr := SnapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "No se pudo crear la sesión de pago: "+snapErr.GetMessage())
	}

	meta := map[string]string{"userId": strconv.FormatInt(user.UserID, 10)}
	for k, v := range req.Metadata {
		meta[k] = v
	}
	rawMeta, _ := json.Marshal(meta)

	payment := model.PaymentModel{
		PaymentID:     uuid.NewString(),
		OrderID:       orderID,
		UserID:        &user.UserID,
		Status:        model.StatusOpen,
		PaymentStatus: model.PaymentStatusUnpaid,
		AmountTotal:   total,
		Currency:      "mxn",
		CustomerEmail: email,
		SnapToken:     resp.Token,
		RedirectURL:   resp.RedirectURL,
		Metadata:      datatypes.JSON(rawMeta),
	}
	if err := s.DB.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		OrderID:     orderID,
		SnapToken:   resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// VerifyPayment: estado de un pago para la vista de retorno.
func (s *CheckoutService) VerifyPayment(ctx context.Context, orderID string) (*dto.VerifyPaymentResponse, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "orderId requerido")
	}

	var payment model.PaymentModel
	if err := s.DB.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Pago no encontrado")
	}

	return &dto.VerifyPaymentResponse{
		IsComplete:    payment.Approved(),
		PaymentStatus: payment.PaymentStatus,
		Amount:        payment.AmountTotal,
		Currency:      payment.Currency,
		OrderID:       payment.OrderID,
		UserID:        payment.UserID,
	}, nil
}
