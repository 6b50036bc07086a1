package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an append-only record of a state-changing action, written in
// the same transaction as the change itself. ActorID is nil for actions taken
// by the system (the auto-discard sweep).
type AuditEntry struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	ClaimID   *uuid.UUID `gorm:"type:uuid;index" json:"claim_id,omitempty"`
	Action    string     `gorm:"size:50;not null;index" json:"action"`
	ActorID   *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
