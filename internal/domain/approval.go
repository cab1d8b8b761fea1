package domain

import (
	"database/sql"
	"time"
)

// ApprovalType names the pipeline stage whose output is waiting for sign-off.
type ApprovalType string

const (
	ApprovalTypeStories      ApprovalType = "stories"
	ApprovalTypeSubjectLines ApprovalType = "subject-lines"
	ApprovalTypeImages       ApprovalType = "images"
	ApprovalTypeFinalContent ApprovalType = "final-content"
)

// ApprovalStatus is the decision state of an approval item. Pending is the only non-terminal state.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

type Approval struct {
	ID               string         `json:"id"`
	ApprovalType     ApprovalType   `json:"type"`
	ItemID           string         `json:"itemId"`
	WorkflowID       string         `json:"workflowId"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Data             sql.NullString `json:"-"`
	Status           ApprovalStatus `json:"status"`
	Feedback         string         `json:"feedback"`
	RequestingUserID string         `json:"requestingUserId"`
	DecidedBy        string         `json:"decidedBy"`
	CreatedAt        time.Time      `json:"createdAt"`
	DecidedAt        sql.NullTime   `json:"-"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
