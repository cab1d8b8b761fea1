package models

import "encoding/json"

type TriggerWorkflowRequest struct {
	WorkflowType string          `json:"workflowType"`
	Config       json.RawMessage `json:"config"`
}

type TriggerWorkflowResponse struct {
	Success    bool   `json:"success"`
	WorkflowID any    `json:"workflowId"`
	Status     string `json:"status"`
}
