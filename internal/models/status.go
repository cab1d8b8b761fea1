package models

// ExecutionSummary is the reshaped view of one upstream execution.
type ExecutionSummary struct {
	ID           any     `json:"id"`
	WorkflowName string  `json:"workflowName,omitempty"`
	Status       string  `json:"status"` // completed or running
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	Error        any     `json:"error,omitempty"`
}

type RecentExecutions struct {
	Recent []ExecutionSummary `json:"recent"`
}

type StatusResponse struct {
	Workflow         any                   `json:"workflow"`
	PendingApprovals []ApprovalApiResponse `json:"pendingApprovals"`
	LastUpdated      string                `json:"lastUpdated"`
}
