package engine

import (
	"context"
	"strings"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"
)

// StatusService assembles the workflow-status view: upstream execution state plus the approvals
// waiting on a human.
type StatusService struct {
	Executions  ExecutionSource
	Approvals   ApprovalRepo // optional; the demo list is served when nil or empty
	RecentLimit int
	clock       core.Clock
}

func NewStatusService(executions ExecutionSource, approvals ApprovalRepo, recentLimit int, clock core.Clock) *StatusService {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	if clock == nil {
		clock = core.NewRealClock()
	}
	return &StatusService{Executions: executions, Approvals: approvals, RecentLimit: recentLimit, clock: clock}
}

// WorkflowStatus returns one execution verbatim when workflowID is set, otherwise the recent executions
// filtered by workflowType ("" or "all" keeps everything).
func (s *StatusService) WorkflowStatus(ctx context.Context, workflowID, workflowType string) (models.StatusResponse, error) {
	var workflow any
	if workflowID != "" {
		raw, err := s.Executions.GetExecution(ctx, workflowID)
		if err != nil {
			return models.StatusResponse{}, err
		}
		workflow = raw
	} else {
		executions, err := s.Executions.ListExecutions(ctx, s.RecentLimit)
		if err != nil {
			return models.StatusResponse{}, err
		}
		recent := make([]models.ExecutionSummary, 0, len(executions))
		for _, e := range executions {
			summary := e.Summary()
			if matchesWorkflowType(summary.WorkflowName, workflowType) {
				recent = append(recent, summary)
			}
		}
		workflow = models.RecentExecutions{Recent: recent}
	}

	pending, err := s.pendingApprovals(ctx)
	if err != nil {
		return models.StatusResponse{}, err
	}
	return models.StatusResponse{
		Workflow:         workflow,
		PendingApprovals: pending,
		LastUpdated:      s.clock.Now().UTC().Format(models.TimestampLayout),
	}, nil
}

func (s *StatusService) pendingApprovals(ctx context.Context) ([]models.ApprovalApiResponse, error) {
	if s.Approvals != nil {
		rows, err := s.Approvals.FindPending(ctx, "")
		if err != nil {
			return nil, &models.DownstreamError{Collaborator: "approval store", Err: err}
		}
		if len(rows) > 0 {
			return models.ToApprovalApiList(rows), nil
		}
	}
	return DemoPendingApprovals(s.clock.Now().UTC()), nil
}

// DemoPendingApprovals is the fixed list shown before the store holds any pending approvals.
func DemoPendingApprovals(now time.Time) []models.ApprovalApiResponse {
	return []models.ApprovalApiResponse{
		{
			ID:          "stories-001",
			Type:        "stories",
			Title:       "Story Selection for Week 32",
			Description: "4 stories selected from 73 analyzed articles",
			Status:      "pending",
			CreatedAt:   now.Add(-15 * time.Minute),
		},
		{
			ID:          "subject-002",
			Type:        "subject-lines",
			Title:       "Subject Line Options",
			Description: "3 AI-generated subject lines for approval",
			Status:      "pending",
			CreatedAt:   now.Add(-5 * time.Minute),
		},
	}
}

func matchesWorkflowType(workflowName, workflowType string) bool {
	if workflowType == "" || strings.EqualFold(workflowType, "all") {
		return true
	}
	return strings.Contains(normalizeName(workflowName), normalizeName(workflowType))
}

func normalizeName(s string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(s))
}
