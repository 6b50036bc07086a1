package dto

import "github.com/ironthroneruler/lostandfound/internal/models"

type ReportItemRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	LocationFound string `json:"location_found"`
	DateFound     string `json:"date_found"` // YYYY-MM-DD
	PhotoURL      string `json:"photo_url"`
}

// UpdateItemRequest edits descriptive fields only. Empty fields are left
// unchanged; status is never editable through this path.
type UpdateItemRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	LocationFound string `json:"location_found"`
	DateFound     string `json:"date_found"`
	PhotoURL      string `json:"photo_url"`
}

type ReviewReportRequest struct {
	Action string `json:"action"` // approve | reject
	Notes  string `json:"notes"`
}

type DiscardItemRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// ItemResponse decorates an item with the derived countdown fields.
type ItemResponse struct {
	models.Item
	DaysSinceReported int    `json:"days_since_reported"`
	DaysUntilDiscard  *int   `json:"days_until_discard,omitempty"`
	DiscardTier       string `json:"discard_tier,omitempty"`
}
