package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"github.com/ironthroneruler/lostandfound/internal/services"
	"github.com/stretchr/testify/assert"
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

func seedItem(t *testing.T, db *gorm.DB, status string, ageDays int) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:            uuid.New(),
		Name:          "Gray Hoodie",
		Category:      "clothing",
		LocationFound: "Bus loop",
		DateFound:     time.Now().AddDate(0, 0, -ageDays),
		Status:        status,
		SubmittedByID: uuid.New(),
		CreatedAt:     time.Now().AddDate(0, 0, -ageDays),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestSweepDiscardsStaleItems(t *testing.T) {
	db := newTestDB(t)
	sched := New(db, services.NewItemService(db, false), time.Hour, 90)

	stale := seedItem(t, db, models.ItemStatusUnclaimed, 120)
	staleRejected := seedItem(t, db, models.ItemStatusRejected, 95)
	fresh := seedItem(t, db, models.ItemStatusUnclaimed, 30)
	verified := seedItem(t, db, models.ItemStatusVerified, 200)

	report, err := sched.Run(context.Background(), 90, false)
	require.NoError(t, err)
	assert.Equal(t, 90, report.ThresholdDays)
	assert.Len(t, report.Eligible, 2)
	assert.Equal(t, 2, report.Discarded)
	assert.Equal(t, 0, report.Failed)

	for _, id := range []uuid.UUID{stale.ID, staleRejected.ID} {
		var item models.Item
		require.NoError(t, db.First(&item, "id = ?", id).Error)
		assert.Equal(t, models.ItemStatusDiscarded, item.Status)
		assert.Equal(t, "Auto-discarded: unclaimed for 90+ days", item.DiscardReason)
		assert.Nil(t, item.DiscardedByID)
		assert.NotNil(t, item.DiscardDate)
	}

	// Items under the threshold or past the open statuses stay untouched.
	for _, id := range []uuid.UUID{fresh.ID, verified.ID} {
		var item models.Item
		require.NoError(t, db.First(&item, "id = ?", id).Error)
		assert.NotEqual(t, models.ItemStatusDiscarded, item.Status)
	}
}

func TestSweepIdempotent(t *testing.T) {
	db := newTestDB(t)
	sched := New(db, services.NewItemService(db, false), time.Hour, 90)
	seedItem(t, db, models.ItemStatusUnclaimed, 120)

	first, err := sched.Run(context.Background(), 90, false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Discarded)

	second, err := sched.Run(context.Background(), 90, false)
	require.NoError(t, err)
	assert.Empty(t, second.Eligible)
	assert.Equal(t, 0, second.Discarded)
}

func TestSweepDryRun(t *testing.T) {
	db := newTestDB(t)
	sched := New(db, services.NewItemService(db, false), time.Hour, 90)
	stale := seedItem(t, db, models.ItemStatusUnclaimed, 120)

	report, err := sched.Run(context.Background(), 90, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	require.Len(t, report.Eligible, 1)
	assert.Equal(t, stale.ID, report.Eligible[0].ID)
	assert.Equal(t, 120, report.Eligible[0].DaysOld)
	assert.Equal(t, 0, report.Discarded)

	var item models.Item
	require.NoError(t, db.First(&item, "id = ?", stale.ID).Error)
	assert.Equal(t, models.ItemStatusUnclaimed, item.Status)
}

func TestSweepThresholdOverride(t *testing.T) {
	db := newTestDB(t)
	sched := New(db, services.NewItemService(db, false), time.Hour, 90)
	seedItem(t, db, models.ItemStatusUnclaimed, 45)

	report, err := sched.Run(context.Background(), 30, false)
	require.NoError(t, err)
	assert.Equal(t, 30, report.ThresholdDays)
	assert.Equal(t, 1, report.Discarded)

	// Zero falls back to the configured default.
	report, err = sched.Run(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, 90, report.ThresholdDays)
}
