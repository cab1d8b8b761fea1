package domain

import "time"

type Newsletter struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Preheader   string     `json:"preheader"`
	WordCount   int        `json:"wordCount"`
	Status      string     `json:"status"` // draft, pending_approval, approved, published, rejected
	WorkflowID  string     `json:"workflowId"`
	Opens       int        `json:"opens"`
	Clicks      int        `json:"clicks"`
	SentCount   int        `json:"sentCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
