package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"gorm.io/gorm"
)

// ErrConcurrencyConflict is a lost race on an atomic update. Operations retry
// a bounded number of times internally before surfacing it.
var ErrConcurrencyConflict = errors.New("concurrent update conflict")

const maxConflictRetries = 3

// withConflictRetry re-runs op on version conflicts with exponential backoff.
func withConflictRetry(op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 20 * time.Millisecond
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrConcurrencyConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithMaxRetries(bo, maxConflictRetries))
}

// saveItemCAS writes the item only if its version still matches what the
// transaction read, so a concurrent reviewer cannot clobber a stale status.
func saveItemCAS(tx *gorm.DB, item *models.Item, readVersion int) error {
	item.Version = readVersion + 1
	result := tx.Model(&models.Item{}).
		Where("id = ? AND version = ?", item.ID, readVersion).
		Select("*").Omit("id", "created_at").
		Updates(item)
	if result.Error != nil {
		return fmt.Errorf("failed to save item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

func fetchItem(tx *gorm.DB, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}
