// Package lifecycle is the pure decision core for the item/claim state
// machines. It computes transitions on in-memory records and performs no I/O;
// callers persist the mutated records inside their own transaction.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ironthroneruler/lostandfound/internal/models"
)

type Event string

const (
	EventApproveReport   Event = "approve_report"
	EventRejectReport    Event = "reject_report"
	EventApproveClaim    Event = "approve_claim"
	EventRejectClaim     Event = "reject_claim"
	EventCompleteClaim   Event = "complete_claim"
	EventDiscard         Event = "discard"
	EventUndoClaimReview Event = "undo_claim_review"
)

// Meta carries the actor and event detail stamped onto the records.
// Actor is nil for the system actor (the auto-discard sweep).
type Meta struct {
	Actor         *uuid.UUID
	Now           time.Time
	Notes         string
	DiscardReason string
}

// Apply mutates item (and claim, for claim events) according to the event, or
// returns an error leaving both untouched. Claim events require a non-nil
// claim: the two state machines are always advanced together so they cannot
// drift apart.
func Apply(item *models.Item, claim *models.Claim, event Event, meta Meta) error {
	switch event {
	case EventApproveReport:
		if item.Status != models.ItemStatusReported {
			return invalid(event, item.Status)
		}
		item.Status = models.ItemStatusUnclaimed
		stampApproval(item, meta)
		return nil

	case EventRejectReport:
		if item.Status != models.ItemStatusReported {
			return invalid(event, item.Status)
		}
		item.Status = models.ItemStatusRejected
		stampApproval(item, meta)
		return nil

	case EventApproveClaim:
		if claim == nil {
			return fmt.Errorf("%w: %s requires a claim", ErrPreconditionFailed, event)
		}
		if claim.Status != models.ClaimStatusPending {
			return fmt.Errorf("%w: cannot approve claim in status %q", ErrInvalidTransition, claim.Status)
		}
		if !item.OpenForClaims() {
			return invalid(event, item.Status)
		}
		item.Status = models.ItemStatusVerified
		verified := meta.Now
		item.VerifiedDate = &verified
		stampReview(claim, models.ClaimStatusApproved, meta)
		return nil

	case EventRejectClaim:
		if claim == nil {
			return fmt.Errorf("%w: %s requires a claim", ErrPreconditionFailed, event)
		}
		if claim.Status != models.ClaimStatusPending {
			return fmt.Errorf("%w: cannot reject claim in status %q", ErrInvalidTransition, claim.Status)
		}
		if !item.OpenForClaims() {
			return invalid(event, item.Status)
		}
		item.Status = models.ItemStatusRejected
		stampReview(claim, models.ClaimStatusRejected, meta)
		return nil

	case EventCompleteClaim:
		if claim == nil {
			return fmt.Errorf("%w: %s requires a claim", ErrPreconditionFailed, event)
		}
		// Cross-entity guard: completion is only legal once the claim has
		// been approved, regardless of the item's status.
		if claim.Status != models.ClaimStatusApproved {
			return fmt.Errorf("%w: claim must be approved before completion, is %q", ErrPreconditionFailed, claim.Status)
		}
		if item.Status != models.ItemStatusVerified {
			return invalid(event, item.Status)
		}
		item.Status = models.ItemStatusReturned
		claimant := claim.ClaimantID
		item.ReturnedToID = &claimant
		stampReview(claim, models.ClaimStatusCompleted, meta)
		return nil

	case EventDiscard:
		switch item.Status {
		case models.ItemStatusUnclaimed, models.ItemStatusRejected, models.ItemStatusVerified:
		default:
			return invalid(event, item.Status)
		}
		item.Status = models.ItemStatusDiscarded
		discarded := meta.Now
		item.DiscardDate = &discarded
		item.DiscardReason = meta.DiscardReason
		item.DiscardNotes = meta.Notes
		item.DiscardedByID = meta.Actor
		return nil

	case EventUndoClaimReview:
		if claim == nil {
			return fmt.Errorf("%w: %s requires a claim", ErrPreconditionFailed, event)
		}
		switch claim.Status {
		case models.ClaimStatusApproved, models.ClaimStatusRejected, models.ClaimStatusCompleted:
		default:
			return fmt.Errorf("%w: cannot undo review of claim in status %q", ErrInvalidTransition, claim.Status)
		}
		switch item.Status {
		case models.ItemStatusVerified, models.ItemStatusRejected, models.ItemStatusReturned:
		default:
			return invalid(event, item.Status)
		}
		// Undoing from verified or returned restarts the countdown cleanly;
		// a stale VerifiedDate must not survive the undo.
		if item.Status == models.ItemStatusVerified || item.Status == models.ItemStatusReturned {
			item.VerifiedDate = nil
		}
		item.Status = models.ItemStatusUnclaimed
		item.ReturnedToID = nil
		claim.Status = models.ClaimStatusPending
		claim.ReviewedByID = nil
		claim.ReviewedAt = nil
		claim.AdminNotes = ""
		return nil

	default:
		return fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, event)
	}
}

func invalid(event Event, status string) error {
	return fmt.Errorf("%w: %s not legal from item status %q", ErrInvalidTransition, event, status)
}

func stampApproval(item *models.Item, meta Meta) {
	when := meta.Now
	item.ApprovedByID = meta.Actor
	item.ApprovalDate = &when
	item.ApprovalNotes = meta.Notes
}

func stampReview(claim *models.Claim, status string, meta Meta) {
	when := meta.Now
	claim.Status = status
	claim.ReviewedByID = meta.Actor
	claim.ReviewedAt = &when
	claim.AdminNotes = meta.Notes
}
