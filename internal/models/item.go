package models

import (
	"time"

	"github.com/google/uuid"
)

// Item statuses. An item enters at "reported" (or "unclaimed" when report
// auto-approval is configured) and ends at "returned" or "discarded".
// "unclaimed" and "rejected" are both open for new claims.
const (
	ItemStatusReported  = "reported"
	ItemStatusUnclaimed = "unclaimed"
	ItemStatusRejected  = "rejected"
	ItemStatusVerified  = "verified"
	ItemStatusReturned  = "returned"
	ItemStatusDiscarded = "discarded"
)

var ItemCategories = []string{
	"electronics",
	"clothing",
	"bags",
	"supplies",
	"keys",
	"accessories",
	"equipment",
	"personal",
	"other",
}

func ValidCategory(category string) bool {
	for _, c := range ItemCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Item struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Category      string    `gorm:"size:50;not null;index" json:"category"`
	Description   string    `gorm:"type:text" json:"description"`
	LocationFound string    `gorm:"size:200;not null" json:"location_found"`
	DateFound     time.Time `gorm:"not null" json:"date_found"`
	PhotoURL      string    `gorm:"size:500" json:"photo_url,omitempty"`
	Status        string    `gorm:"size:20;not null;default:'reported';index" json:"status"`

	SubmittedByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"submitted_by"`
	ReturnedToID  *uuid.UUID `gorm:"type:uuid" json:"returned_to,omitempty"`

	// Report review (first gate: is the report itself legitimate).
	ApprovedByID  *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovalDate  *time.Time `json:"approval_date,omitempty"`
	ApprovalNotes string     `gorm:"type:text" json:"approval_notes,omitempty"`

	// Set when a claim is approved; starts the 60-day pickup countdown.
	VerifiedDate *time.Time `json:"verified_date,omitempty"`

	DiscardDate   *time.Time `json:"discard_date,omitempty"`
	DiscardReason string     `gorm:"size:200" json:"discard_reason,omitempty"`
	DiscardNotes  string     `gorm:"type:text" json:"discard_notes,omitempty"`
	DiscardedByID *uuid.UUID `gorm:"type:uuid" json:"discarded_by,omitempty"`

	// Version backs optimistic check-and-set writes; every state change
	// bumps it inside the transaction that performed the status check.
	Version int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SubmittedBy User `gorm:"foreignKey:SubmittedByID" json:"-"`
}

// OpenForClaims reports whether new claims may target this item.
func (i *Item) OpenForClaims() bool {
	return i.Status == ItemStatusUnclaimed || i.Status == ItemStatusRejected
}
