// HandlePaymentNotification se invoca al recibir la notificación de Midtrans
package service

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"

	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/configs"
	"github.com/presbond/congreso-back/internals/features/payments/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

// validSignature verifica sha512(order_id + status_code + gross_amount + serverKey).
func validSignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + configs.MidtransServerKey))
	return hex.EncodeToString(sum[:]) == signatureKey
}

// HandlePaymentNotification procesa la notificación y, si el pago quedó
// liquidado, activa al usuario para el evento. Es idempotente por order_id:
// Midtrans reintenta la misma notificación varias veces.
func HandlePaymentNotification(db *gorm.DB, body map[string]interface{}) error {
	orderID, ok1 := body["order_id"].(string)
	status, ok2 := body["transaction_status"].(string)
	statusCode, _ := body["status_code"].(string)
	grossAmount, _ := body["gross_amount"].(string)
	signatureKey, _ := body["signature_key"].(string)
	paymentType, _ := body["payment_type"].(string)

	if !ok1 || !ok2 {
		log.Println("[ERROR] Payload de webhook incompleto:", body)
		return fmt.Errorf("invalid payload")
	}

	if !validSignature(orderID, statusCode, grossAmount, signatureKey) {
		log.Println("[ERROR] Firma de webhook inválida para order_id:", orderID)
		return fmt.Errorf("invalid signature")
	}

	log.Println("📄 Order ID:", orderID)
	log.Println("📌 Transaction Status:", status)

	return db.Transaction(func(tx *gorm.DB) error {
		var payment model.PaymentModel
		if err := tx.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
			log.Println("[ERROR] Pago no encontrado:", err)
			return fmt.Errorf("payment with order_id %s not found", orderID)
		}

		payment.TransactionStatus = status
		if paymentType != "" {
			payment.PaymentType = paymentType
		}

		switch status {
		case "capture", "settlement":
			payment.PaymentStatus = model.PaymentStatusPaid
			payment.Status = model.StatusComplete

		case "expire":
			payment.PaymentStatus = model.PaymentStatusExpired
			payment.Status = model.StatusCanceled
		case "cancel", "deny":
			payment.Status = model.StatusCanceled
		default:
			log.Println("[INFO] Estado no procesado:", status)
		}

		if err := tx.Save(&payment).Error; err != nil {
			log.Println("[ERROR] No se pudo guardar el estado del pago:", err)
			return err
		}

		// El pago aprobado habilita la inscripción a talleres.
		if payment.Approved() && payment.UserID != nil {
			if err := tx.Model(&userModel.UserModel{}).
				Where("user_id = ?", *payment.UserID).
				Update("status_event", true).Error; err != nil {
				log.Println("[ERROR] No se pudo activar al usuario:", err)
				return err
			}
			log.Println("✅ Usuario activado para el evento:", strconv.FormatInt(*payment.UserID, 10))
		}

		return nil
	})
}
