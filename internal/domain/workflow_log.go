package domain

import "time"

const (
	WorkflowLogStatusStarted   = "started"
	WorkflowLogStatusRunning   = "running"
	WorkflowLogStatusCompleted = "completed"
	WorkflowLogStatusFailed    = "failed"
	WorkflowLogStatusPaused    = "paused"
)

const (
	WorkflowTypeDataIngestion        = "data-ingestion"
	WorkflowTypeNewsletterGeneration = "newsletter-generation"
	WorkflowTypeApprovalProcessing   = "approval-processing"
	WorkflowTypePublishing           = "publishing"
)

// WorkflowLog is one line of the audit trail for calls made to the workflow engine.
type WorkflowLog struct {
	ID             string     `json:"id"`
	WorkflowID     string     `json:"workflowId"`
	WorkflowName   string     `json:"workflowName"`
	WorkflowType   string     `json:"workflowType"`
	Status         string     `json:"status"`
	StepName       string     `json:"stepName"`
	ErrorMessage   string     `json:"errorMessage"`
	ItemsProcessed int        `json:"itemsProcessed"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}
