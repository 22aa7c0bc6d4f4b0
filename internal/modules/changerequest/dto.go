package changerequest

import (
	"encoding/json"

	"functionhall/internal/domain"
)

type SubmitRequest struct {
	ActionType domain.ActionType `json:"action_type" binding:"required"`
	Payload    json.RawMessage   `json:"payload"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// ApplyResult is the outcome of an approval. Hall is nil for deletions.
type ApplyResult struct {
	Request *domain.ChangeRequest `json:"request"`
	Hall    *domain.Hall          `json:"hall,omitempty"`
}

// RequestView adds the proposing vendor to a request.
type RequestView struct {
	*domain.ChangeRequest
	Vendor *VendorSummary `json:"vendor,omitempty"`
}

type VendorSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
}
