package service

import (
	"log"

	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/payments/model"
	userModel "github.com/presbond/congreso-back/internals/features/users/user/model"
)

// HasApprovedPayment revisa si el usuario tiene al menos un pago aprobado
// (payment_status=paid y status=complete, case-insensitive).
func HasApprovedPayment(db *gorm.DB, userID int64) bool {
	var n int64
	err := db.Model(&model.PaymentModel{}).
		Where("user_id = ? AND lower(payment_status) = ? AND lower(status) = ?",
			userID, model.PaymentStatusPaid, model.StatusComplete).
		Count(&n).Error
	if err != nil {
		log.Printf("[ERROR] verificando pago de usuario %d: %v", userID, err)
		return false
	}
	return n > 0
}

// IsPaymentEligible: el flag del usuario O un pago aprobado bastan (OR
// lógico). Tolera los dos caminos de escritura —activación manual de admin y
// webhook de la pasarela— sin exigir que estén sincronizados.
func IsPaymentEligible(db *gorm.DB, user *userModel.UserModel) bool {
	if user.StatusEvent {
		return true
	}
	return HasApprovedPayment(db, user.UserID)
}
