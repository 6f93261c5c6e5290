package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/presbond/congreso-back/internals/features/users/auth/model"
)

// StartTokenCleanupScheduler borra periódicamente los tokens vencidos:
// la blacklist de access tokens y los códigos de verificación expirados.
func StartTokenCleanupScheduler(db *gorm.DB) {
	go func() {
		// TTL de retención desde env (default: 7 días)
		ttlDays := 7
		if val := os.Getenv("TOKEN_BLACKLIST_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				ttlDays = parsed
			}
		}

		for {
			log.Println("[CLEANUP] Ejecutando limpieza de tokens vencidos...")

			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			res := db.Where("expired_at < ?", deleteBefore).
				Delete(&model.TokenBlacklistModel{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] No se pudo limpiar token_blacklist: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d tokens de blacklist eliminados", res.RowsAffected)
			}

			res = db.Where("expires_at < ?", deleteBefore).
				Delete(&model.VerificationTokenModel{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] No se pudo limpiar verification_token: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d códigos de verificación eliminados", res.RowsAffected)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
