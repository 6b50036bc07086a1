package logging

import (
	"log/slog"
	"time"

	"github.com/ironthroneruler/lostandfound/internal/models"
	"gorm.io/gorm"
)

const logRetentionDays = 30

// StartCleanup launches a worker that prunes system_logs past the retention
// window. One pass runs per day; the worker exits when done is closed.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pruneLogs(db)
			case <-done:
				return
			}
		}
	}()
}

func pruneLogs(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -logRetentionDays)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
}
