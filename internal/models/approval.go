package models

import (
	"encoding/json"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
)

// TimestampLayout renders UTC times with millisecond precision and a trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	NextStepContinued = "workflow-continued"
	NextStepPaused    = "workflow-paused"
)

// DecisionRequest is the body accepted by the approve-content endpoint.
// Approved is a pointer so a missing field can be told apart from false.
type DecisionRequest struct {
	ApprovalType string `json:"approvalType"`
	ItemID       string `json:"itemId"`
	Approved     *bool  `json:"approved"`
	Feedback     string `json:"feedback,omitempty"`
	UserID       string `json:"userId"`
}

// ApprovalEcho repeats the decision back to the caller with the time it was processed.
type ApprovalEcho struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Approved  bool   `json:"approved"`
	Feedback  string `json:"feedback,omitempty"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

type AdvanceResponse struct {
	Success  bool         `json:"success"`
	Approval ApprovalEcho `json:"approval"`
	NextStep string       `json:"nextStep"`
}

// AdvancementNotification is the payload posted to the next stage webhook.
type AdvancementNotification struct {
	ApprovedItemID string `json:"approvedItemId"`
	Feedback       string `json:"feedback"`
	UserID         string `json:"userId"`
}

// CreateApprovalRequest is sent by the workflow engine when a stage needs human sign-off.
type CreateApprovalRequest struct {
	ID               string          `json:"id"`
	ApprovalType     string          `json:"type"`
	ItemID           string          `json:"itemId"`
	WorkflowID       string          `json:"workflowId"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Data             json.RawMessage `json:"data,omitempty"`
	RequestingUserID string          `json:"requestingUserId"`
}

type ApprovalApiResponse struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	ItemID           string          `json:"itemId,omitempty"`
	WorkflowID       string          `json:"workflowId,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Data             json.RawMessage `json:"data,omitempty"`
	Status           string          `json:"status"`
	Feedback         string          `json:"feedback,omitempty"`
	RequestingUserID string          `json:"requestingUserId,omitempty"`
	DecidedBy        string          `json:"decidedBy,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	DecidedAt        *time.Time      `json:"decidedAt,omitempty"`
}

func ToApprovalApi(a domain.Approval) ApprovalApiResponse {
	r := ApprovalApiResponse{
		ID:               a.ID,
		Type:             string(a.ApprovalType),
		ItemID:           a.ItemID,
		WorkflowID:       a.WorkflowID,
		Title:            a.Title,
		Description:      a.Description,
		Status:           string(a.Status),
		Feedback:         a.Feedback,
		RequestingUserID: a.RequestingUserID,
		DecidedBy:        a.DecidedBy,
		CreatedAt:        a.CreatedAt,
	}
	if a.Data.Valid && json.Valid([]byte(a.Data.String)) {
		r.Data = json.RawMessage(a.Data.String)
	}
	if a.DecidedAt.Valid {
		t := a.DecidedAt.Time
		r.DecidedAt = &t
	}
	return r
}

func ToApprovalApiList(list []domain.Approval) []ApprovalApiResponse {
	out := make([]ApprovalApiResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToApprovalApi(a))
	}
	return out
}
