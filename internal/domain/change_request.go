package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionEdit   ActionType = "edit"
	ActionDelete ActionType = "delete"
)

func (a ActionType) Valid() bool {
	return a == ActionAdd || a == ActionEdit || a == ActionDelete
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

// ChangeRequest is a vendor proposed mutation of the catalog awaiting review.
// OldData and NewData hold the JSON encoding of the variant returned by Action.
type ChangeRequest struct {
	ID              int64          `json:"id" gorm:"primaryKey"`
	VendorID        int64          `json:"vendor_id" gorm:"not null;index"`
	HallID          *int64         `json:"hall_id" gorm:"index"`
	ActionType      ActionType     `json:"action_type" gorm:"size:10;not null"`
	Status          RequestStatus  `json:"status" gorm:"size:20;not null;default:pending;index"`
	OldData         datatypes.JSON `json:"old_data"`
	NewData         datatypes.JSON `json:"new_data"`
	RejectionReason string         `json:"rejection_reason,omitempty" gorm:"type:text"`
	ReviewedBy      *int64         `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	RequestedAt     time.Time      `json:"requested_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (ChangeRequest) TableName() string { return "hall_change_requests" }

func (r *ChangeRequest) IsPending() bool {
	return r.Status == RequestPending
}

// Action is one of AddAction, EditAction or DeleteAction.
type Action interface {
	Type() ActionType
}

type AddAction struct {
	Proposal HallProposal
}

type EditAction struct {
	HallID int64
	Before HallFields
	After  HallEdit
}

type DeleteAction struct {
	HallID int64
	Before HallFields
}

func (AddAction) Type() ActionType    { return ActionAdd }
func (EditAction) Type() ActionType   { return ActionEdit }
func (DeleteAction) Type() ActionType { return ActionDelete }

// NewChangeRequest encodes action into a pending request proposed by vendorID.
func NewChangeRequest(vendorID int64, action Action) (*ChangeRequest, error) {
	req := &ChangeRequest{
		VendorID:   vendorID,
		ActionType: action.Type(),
		Status:     RequestPending,
	}

	var err error
	switch a := action.(type) {
	case AddAction:
		req.NewData, err = json.Marshal(a.Proposal)
	case EditAction:
		req.HallID = &a.HallID
		if req.OldData, err = json.Marshal(a.Before); err == nil {
			req.NewData, err = json.Marshal(a.After)
		}
	case DeleteAction:
		req.HallID = &a.HallID
		req.OldData, err = json.Marshal(a.Before)
	default:
		return nil, fmt.Errorf("unsupported action %T", action)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", action.Type(), err)
	}
	return req, nil
}

// Action decodes the stored snapshots back into their typed variant.
func (r *ChangeRequest) Action() (Action, error) {
	switch r.ActionType {
	case ActionAdd:
		var a AddAction
		if err := json.Unmarshal(r.NewData, &a.Proposal); err != nil {
			return nil, fmt.Errorf("decode add request %d: %w", r.ID, err)
		}
		return a, nil
	case ActionEdit:
		if r.HallID == nil {
			return nil, fmt.Errorf("edit request %d has no hall", r.ID)
		}
		a := EditAction{HallID: *r.HallID}
		if err := json.Unmarshal(r.OldData, &a.Before); err != nil {
			return nil, fmt.Errorf("decode edit request %d: %w", r.ID, err)
		}
		if err := json.Unmarshal(r.NewData, &a.After); err != nil {
			return nil, fmt.Errorf("decode edit request %d: %w", r.ID, err)
		}
		return a, nil
	case ActionDelete:
		if r.HallID == nil {
			return nil, fmt.Errorf("delete request %d has no hall", r.ID)
		}
		a := DeleteAction{HallID: *r.HallID}
		if err := json.Unmarshal(r.OldData, &a.Before); err != nil {
			return nil, fmt.Errorf("decode delete request %d: %w", r.ID, err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("request %d has unknown action %q", r.ID, r.ActionType)
	}
}
