package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClaimTypeClaim   = "claim"
	ClaimTypeInquiry = "inquiry"
)

const (
	ClaimStatusPending   = "pending"
	ClaimStatusApproved  = "approved"
	ClaimStatusRejected  = "rejected"
	ClaimStatusCompleted = "completed"
)

// Claim is a user's assertion of ownership (or inquiry) against an item.
// Claims are never deleted; history is retained for audit. The partial
// unique index backs the one-pending-claim-per-(item, claimant) guard.
type Claim struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_claims_one_pending,where:status = 'pending'" json:"item_id"`
	ClaimantID  uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_claims_one_pending" json:"claimant_id"`
	ClaimType   string     `gorm:"size:20;not null;default:'claim'" json:"claim_type"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Description string     `gorm:"type:text" json:"description"`
	AdminNotes  string     `gorm:"type:text" json:"admin_notes,omitempty"`

	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Item     Item `gorm:"foreignKey:ItemID" json:"-"`
	Claimant User `gorm:"foreignKey:ClaimantID" json:"-"`
}

func ValidClaimType(t string) bool {
	return t == ClaimTypeClaim || t == ClaimTypeInquiry
}

// Active reports whether the claim currently owns the item's workflow.
func (c *Claim) Active() bool {
	return c.Status == ClaimStatusPending || c.Status == ClaimStatusApproved
}
