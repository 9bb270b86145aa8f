package services

import (
	"context"
	"time"

	"github.com/divizend/dreaming/internal/models"
	"gorm.io/gorm"
)

// PurgeExpiredSessions deletes sessions that expired before now and returns
// how many were removed.
func PurgeExpiredSessions(ctx context.Context, database *gorm.DB, now time.Time) (int64, error) {
	result := database.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
