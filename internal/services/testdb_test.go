package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	// One connection: the in-memory database is per-connection, and
	// serialized transactions match the single-store model.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Claim{},
		&models.AuditEntry{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createItem(t *testing.T, db *gorm.DB, status string, submittedBy uuid.UUID, ageDays int) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:            uuid.New(),
		Name:          "Blue Water Bottle",
		Category:      "personal",
		Description:   "dented on one side",
		LocationFound: "Cafeteria",
		DateFound:     time.Now().AddDate(0, 0, -ageDays),
		Status:        status,
		SubmittedByID: submittedBy,
		CreatedAt:     time.Now().AddDate(0, 0, -ageDays),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func auditCount(t *testing.T, db *gorm.DB, itemID uuid.UUID, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.AuditEntry{}).
		Where("item_id = ? AND action = ?", itemID, action).Count(&n).Error)
	return n
}
