package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/dto"
	"github.com/ironthroneruler/lostandfound/internal/lifecycle"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrItemHasActiveClaim = errors.New("item has an active claim and cannot be deleted")
)

type ItemService struct {
	db          *gorm.DB
	autoApprove bool
	now         func() time.Time
}

// NewItemService builds the item workflow service. When autoApprove is set,
// new reports skip the review gate and enter "unclaimed" directly.
func NewItemService(db *gorm.DB, autoApprove bool) *ItemService {
	return &ItemService{db: db, autoApprove: autoApprove, now: time.Now}
}

// Report records a newly found item.
func (s *ItemService) Report(submitterID uuid.UUID, req *dto.ReportItemRequest) (*models.Item, error) {
	if req.Name == "" || req.LocationFound == "" {
		return nil, errors.New("name and location are required")
	}
	if !models.ValidCategory(req.Category) {
		return nil, errors.New("invalid category")
	}
	dateFound, err := time.Parse("2006-01-02", req.DateFound)
	if err != nil {
		return nil, errors.New("date_found must be YYYY-MM-DD")
	}
	if dateFound.After(s.now()) {
		return nil, errors.New("date found cannot be in the future")
	}

	status := models.ItemStatusReported
	if s.autoApprove {
		status = models.ItemStatusUnclaimed
	}

	item := models.Item{
		ID:            uuid.New(),
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		LocationFound: req.LocationFound,
		DateFound:     dateFound,
		PhotoURL:      req.PhotoURL,
		Status:        status,
		SubmittedByID: submitterID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return recordAudit(tx, item.ID, nil, AuditItemReported, &submitterID, req.LocationFound)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) Get(id uuid.UUID) (*models.Item, error) {
	return fetchItem(s.db, id)
}

// ListOpen returns items open for claims, newest first, with optional
// name/description search and category filter.
func (s *ItemService) ListOpen(query, category string, limit, offset int) ([]models.Item, int64, error) {
	q := s.db.Model(&models.Item{}).
		Where("status IN ?", []string{models.ItemStatusUnclaimed, models.ItemStatusRejected})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	q.Count(&total)

	var items []models.Item
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	return items, total, nil
}

func (s *ItemService) ListMine(userID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := s.db.Where("submitted_by_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// List is the staff view: all items, optionally filtered by status.
func (s *ItemService) List(status string, limit, offset int) ([]models.Item, int64, error) {
	q := s.db.Model(&models.Item{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var items []models.Item
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	return items, total, nil
}

// Update edits the descriptive fields of an item. Status never changes here;
// that is the lifecycle engine's job.
func (s *ItemService) Update(id uuid.UUID, actorID uuid.UUID, req *dto.UpdateItemRequest) (*models.Item, error) {
	var updated *models.Item
	err := withConflictRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			item, err := fetchItem(tx, id)
			if err != nil {
				return err
			}
			readVersion := item.Version

			if req.Name != "" {
				item.Name = req.Name
			}
			if req.Category != "" {
				if !models.ValidCategory(req.Category) {
					return errors.New("invalid category")
				}
				item.Category = req.Category
			}
			if req.Description != "" {
				item.Description = req.Description
			}
			if req.LocationFound != "" {
				item.LocationFound = req.LocationFound
			}
			if req.DateFound != "" {
				dateFound, err := time.Parse("2006-01-02", req.DateFound)
				if err != nil {
					return errors.New("date_found must be YYYY-MM-DD")
				}
				if dateFound.After(s.now()) {
					return errors.New("date found cannot be in the future")
				}
				item.DateFound = dateFound
			}
			if req.PhotoURL != "" {
				item.PhotoURL = req.PhotoURL
			}

			if err := saveItemCAS(tx, item, readVersion); err != nil {
				return err
			}
			if err := recordAudit(tx, item.ID, nil, AuditItemUpdated, &actorID, ""); err != nil {
				return err
			}
			updated = item
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an item that no active claim references. Claim history for
// resolved claims is kept; the rows keep their item id after the delete.
func (s *ItemService) Delete(id uuid.UUID, actorID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := fetchItem(tx, id)
		if err != nil {
			return err
		}

		var active int64
		err = tx.Model(&models.Claim{}).
			Where("item_id = ? AND status IN ?", id, []string{models.ClaimStatusPending, models.ClaimStatusApproved}).
			Count(&active).Error
		if err != nil {
			return fmt.Errorf("failed to count claims: %w", err)
		}
		if active > 0 {
			return ErrItemHasActiveClaim
		}

		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return recordAudit(tx, item.ID, nil, AuditItemDeleted, &actorID, item.Name)
	})
}

// ReviewReport is the first gate: staff confirms the report itself is
// legitimate (approve -> unclaimed) or not (reject -> rejected).
func (s *ItemService) ReviewReport(id uuid.UUID, actorID uuid.UUID, approve bool, notes string) (*models.Item, error) {
	event := lifecycle.EventApproveReport
	action := AuditReportApproved
	if !approve {
		event = lifecycle.EventRejectReport
		action = AuditReportRejected
	}

	var reviewed *models.Item
	err := withConflictRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			item, err := fetchItem(tx, id)
			if err != nil {
				return err
			}
			readVersion := item.Version

			meta := lifecycle.Meta{Actor: &actorID, Now: s.now(), Notes: notes}
			if err := lifecycle.Apply(item, nil, event, meta); err != nil {
				return err
			}
			if err := saveItemCAS(tx, item, readVersion); err != nil {
				return err
			}
			if err := recordAudit(tx, item.ID, nil, action, &actorID, notes); err != nil {
				return err
			}
			reviewed = item
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// Discard disposes of an item. actor is nil when the auto-discard sweep is
// the caller.
func (s *ItemService) Discard(id uuid.UUID, actor *uuid.UUID, reason, notes string) (*models.Item, error) {
	var discarded *models.Item
	err := withConflictRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			item, err := fetchItem(tx, id)
			if err != nil {
				return err
			}
			readVersion := item.Version

			meta := lifecycle.Meta{Actor: actor, Now: s.now(), Notes: notes, DiscardReason: reason}
			if err := lifecycle.Apply(item, nil, lifecycle.EventDiscard, meta); err != nil {
				return err
			}
			if err := saveItemCAS(tx, item, readVersion); err != nil {
				return err
			}
			if err := recordAudit(tx, item.ID, nil, AuditItemDiscarded, actor, reason); err != nil {
				return err
			}
			discarded = item
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return discarded, nil
}
