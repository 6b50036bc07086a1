package dto

type SubmitClaimRequest struct {
	ClaimType   string `json:"claim_type"` // claim | inquiry
	Description string `json:"description"`
}

type ReviewClaimRequest struct {
	Action     string `json:"action"` // approve | reject | complete
	AdminNotes string `json:"admin_notes"`
}
