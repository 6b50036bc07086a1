// Package scheduler implements the periodic auto-discard sweep: items still
// open for claims after the configured threshold are discarded under the
// system actor. Runs are idempotent; re-running immediately finds nothing.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/lifecycle"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"github.com/ironthroneruler/lostandfound/internal/services"
	"gorm.io/gorm"
)

type Scheduler struct {
	db       *gorm.DB
	items    *services.ItemService
	interval time.Duration
	days     int
	now      func() time.Time
}

func New(db *gorm.DB, items *services.ItemService, interval time.Duration, thresholdDays int) *Scheduler {
	if thresholdDays <= 0 {
		thresholdDays = lifecycle.DefaultAutoDiscardDays
	}
	return &Scheduler{
		db:       db,
		items:    items,
		interval: interval,
		days:     thresholdDays,
		now:      time.Now,
	}
}

// ItemSummary is one affected (or would-be affected) item in a sweep report.
type ItemSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	DaysOld int       `json:"days_old"`
}

// Report is the outcome of a single sweep.
type Report struct {
	ThresholdDays int           `json:"threshold_days"`
	DryRun        bool          `json:"dry_run"`
	Eligible      []ItemSummary `json:"eligible"`
	Discarded     int           `json:"discarded"`
	Failed        int           `json:"failed"`
}

// Start launches the sweep worker on the configured interval. It stops when
// done is closed.
func (s *Scheduler) Start(done chan struct{}) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				report, err := s.Run(context.Background(), s.days, false)
				if err != nil {
					slog.Error("auto-discard sweep failed", "error", err)
					continue
				}
				if len(report.Eligible) > 0 {
					slog.Info("auto-discard sweep completed",
						"eligible", len(report.Eligible),
						"discarded", report.Discarded,
						"failed", report.Failed)
				}
			case <-done:
				return
			}
		}
	}()
}

// Run performs a single sweep. With dryRun set it only enumerates the items
// that would be discarded. A failure on one item is logged and does not abort
// the rest of the batch.
func (s *Scheduler) Run(ctx context.Context, thresholdDays int, dryRun bool) (*Report, error) {
	if thresholdDays <= 0 {
		thresholdDays = s.days
	}
	now := s.now()

	var candidates []models.Item
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{models.ItemStatusUnclaimed, models.ItemStatusRejected}).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate items: %w", err)
	}

	report := &Report{ThresholdDays: thresholdDays, DryRun: dryRun}
	reason := fmt.Sprintf("Auto-discarded: unclaimed for %d+ days", thresholdDays)

	for i := range candidates {
		item := &candidates[i]
		if !lifecycle.EligibleForAutoDiscard(item, now, thresholdDays) {
			continue
		}
		report.Eligible = append(report.Eligible, ItemSummary{
			ID:      item.ID,
			Name:    item.Name,
			Status:  item.Status,
			DaysOld: lifecycle.DaysSinceReported(item, now),
		})
		if dryRun {
			continue
		}

		// nil actor: the sweep is the system actor.
		if _, err := s.items.Discard(item.ID, nil, reason, ""); err != nil {
			report.Failed++
			slog.Error("auto-discard failed for item", "item_id", item.ID, "error", err)
			continue
		}
		report.Discarded++
	}

	return report, nil
}
