package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/models"
	"gorm.io/gorm"
)

const (
	AuditItemReported   = "item_reported"
	AuditItemUpdated    = "item_updated"
	AuditItemDeleted    = "item_deleted"
	AuditReportApproved = "report_approved"
	AuditReportRejected = "report_rejected"
	AuditClaimSubmitted = "claim_submitted"
	AuditClaimApproved  = "claim_approved"
	AuditClaimRejected  = "claim_rejected"
	AuditClaimCompleted = "claim_completed"
	AuditReviewUndone   = "claim_review_undone"
	AuditItemDiscarded  = "item_discarded"
)

// recordAudit appends an audit row inside the caller's transaction so the
// stamp commits or rolls back together with the change it describes.
func recordAudit(tx *gorm.DB, itemID uuid.UUID, claimID *uuid.UUID, action string, actor *uuid.UUID, notes string) error {
	entry := models.AuditEntry{
		ID:      uuid.New(),
		ItemID:  itemID,
		ClaimID: claimID,
		Action:  action,
		ActorID: actor,
		Notes:   notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// AuditService exposes the append-only trail for staff review.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) ListForItem(itemID uuid.UUID) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := s.db.Where("item_id = ?", itemID).Order("created_at ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
