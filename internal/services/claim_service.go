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
	ErrClaimNotFound         = errors.New("claim not found")
	ErrSelfClaim             = errors.New("you cannot claim an item you reported")
	ErrItemNotAvailable      = errors.New("item is not available for claims")
	ErrDuplicatePendingClaim = errors.New("you already have a pending claim for this item")
	ErrUnknownReviewAction   = errors.New("unknown review action")
)

type ClaimService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db, now: time.Now}
}

// Submit runs the admission checks and creates a pending claim. The item row
// is written with a version check-and-set inside the same transaction, so a
// racing reviewer or a duplicate submission cannot slip past the status and
// uniqueness checks.
func (s *ClaimService) Submit(itemID, claimantID uuid.UUID, req *dto.SubmitClaimRequest) (*models.Claim, error) {
	if !models.ValidClaimType(req.ClaimType) {
		return nil, errors.New("claim_type must be claim or inquiry")
	}

	var created *models.Claim
	err := withConflictRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			item, err := fetchItem(tx, itemID)
			if err != nil {
				return err
			}
			readVersion := item.Version

			if item.SubmittedByID == claimantID {
				return ErrSelfClaim
			}
			if !item.OpenForClaims() {
				return ErrItemNotAvailable
			}

			var pending int64
			err = tx.Model(&models.Claim{}).
				Where("item_id = ? AND claimant_id = ? AND status = ?", itemID, claimantID, models.ClaimStatusPending).
				Count(&pending).Error
			if err != nil {
				return fmt.Errorf("failed to check pending claims: %w", err)
			}
			if pending > 0 {
				return ErrDuplicatePendingClaim
			}

			claim := models.Claim{
				ID:          uuid.New(),
				ItemID:      itemID,
				ClaimantID:  claimantID,
				ClaimType:   req.ClaimType,
				Status:      models.ClaimStatusPending,
				Description: req.Description,
			}
			if err := tx.Create(&claim).Error; err != nil {
				// The partial unique index backstops the check above.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicatePendingClaim
				}
				return fmt.Errorf("failed to create claim: %w", err)
			}

			// Touch the item version so the admission decision and any
			// concurrent status change serialize against each other.
			if err := saveItemCAS(tx, item, readVersion); err != nil {
				return err
			}
			if err := recordAudit(tx, itemID, &claim.ID, AuditClaimSubmitted, &claimantID, req.ClaimType); err != nil {
				return err
			}
			created = &claim
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Review applies a staff decision to a pending or approved claim. The claim
// mutation and the paired item transition commit atomically; neither state
// machine ever advances alone.
func (s *ClaimService) Review(claimID, reviewerID uuid.UUID, req *dto.ReviewClaimRequest) (*models.Claim, error) {
	var event lifecycle.Event
	var action string
	switch req.Action {
	case "approve":
		event, action = lifecycle.EventApproveClaim, AuditClaimApproved
	case "reject":
		event, action = lifecycle.EventRejectClaim, AuditClaimRejected
	case "complete":
		event, action = lifecycle.EventCompleteClaim, AuditClaimCompleted
	default:
		return nil, ErrUnknownReviewAction
	}

	return s.applyReview(claimID, reviewerID, event, action, req.AdminNotes)
}

// Undo reverts a claim review: the claim returns to pending and the item to
// unclaimed, with the review stamps and derived fields cleared.
func (s *ClaimService) Undo(claimID, reviewerID uuid.UUID) (*models.Claim, error) {
	return s.applyReview(claimID, reviewerID, lifecycle.EventUndoClaimReview, AuditReviewUndone, "")
}

func (s *ClaimService) applyReview(claimID, reviewerID uuid.UUID, event lifecycle.Event, action, notes string) (*models.Claim, error) {
	var reviewed *models.Claim
	err := withConflictRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var claim models.Claim
			if err := tx.First(&claim, "id = ?", claimID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrClaimNotFound
				}
				return fmt.Errorf("failed to load claim: %w", err)
			}

			item, err := fetchItem(tx, claim.ItemID)
			if err != nil {
				return err
			}
			readVersion := item.Version

			meta := lifecycle.Meta{Actor: &reviewerID, Now: s.now(), Notes: notes}
			if err := lifecycle.Apply(item, &claim, event, meta); err != nil {
				return err
			}

			if err := saveItemCAS(tx, item, readVersion); err != nil {
				return err
			}
			if err := tx.Save(&claim).Error; err != nil {
				return fmt.Errorf("failed to save claim: %w", err)
			}
			if err := recordAudit(tx, item.ID, &claim.ID, action, &reviewerID, notes); err != nil {
				return err
			}
			reviewed = &claim
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (s *ClaimService) Get(id uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.First(&claim, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to load claim: %w", err)
	}
	return &claim, nil
}

func (s *ClaimService) ListMine(claimantID uuid.UUID) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.db.Where("claimant_id = ?", claimantID).Order("created_at DESC").Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, nil
}

// List is the staff view, optionally filtered by status.
func (s *ClaimService) List(status string, limit, offset int) ([]models.Claim, int64, error) {
	q := s.db.Model(&models.Claim{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var claims []models.Claim
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&claims).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, total, nil
}
