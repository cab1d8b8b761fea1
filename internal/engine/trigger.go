package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"

	"github.com/google/uuid"
)

var ErrUnknownWorkflowType = errors.New("invalid workflow type")

// triggerableWorkflows lists the webhooks a dashboard may start directly.
var triggerableWorkflows = map[string]string{
	"data-ingestion":        domain.WorkflowTypeDataIngestion,
	"newsletter-generation": domain.WorkflowTypeNewsletterGeneration,
	"content-approval":      domain.WorkflowTypeApprovalProcessing,
}

type TriggerService struct {
	Trigger WorkflowTrigger
	Logs    WorkflowLogRepo // optional
	clock   core.Clock
}

func NewTriggerService(trigger WorkflowTrigger, logs WorkflowLogRepo, clock core.Clock) *TriggerService {
	if clock == nil {
		clock = core.NewRealClock()
	}
	return &TriggerService{Trigger: trigger, Logs: logs, clock: clock}
}

// TriggerWorkflow starts the named workflow. Unlike stage advancement, an engine failure is returned.
func (s *TriggerService) TriggerWorkflow(ctx context.Context, req models.TriggerWorkflowRequest) (models.TriggerWorkflowResponse, error) {
	logType, ok := triggerableWorkflows[req.WorkflowType]
	if !ok {
		return models.TriggerWorkflowResponse{}, ErrUnknownWorkflowType
	}
	started := s.clock.Now().UTC()
	workflowID, err := s.Trigger.TriggerWorkflow(ctx, req.WorkflowType, req.Config)
	s.logTrigger(ctx, req.WorkflowType, logType, workflowID, started, err)
	if err != nil {
		return models.TriggerWorkflowResponse{}, err
	}
	slog.InfoContext(ctx, "Workflow triggered", "workflowType", req.WorkflowType, "workflowId", workflowID)
	return models.TriggerWorkflowResponse{Success: true, WorkflowID: workflowID, Status: "triggered"}, nil
}

func (s *TriggerService) logTrigger(ctx context.Context, name, logType string, workflowID any, started time.Time, triggerErr error) {
	if s.Logs == nil {
		return
	}
	entry := &domain.WorkflowLog{
		ID:           uuid.NewString(),
		WorkflowName: name,
		WorkflowType: logType,
		Status:       domain.WorkflowLogStatusStarted,
		StepName:     "trigger",
		StartedAt:    started,
	}
	if workflowID != nil {
		entry.WorkflowID = fmt.Sprint(workflowID)
	}
	if triggerErr != nil {
		completed := s.clock.Now().UTC()
		entry.Status = domain.WorkflowLogStatusFailed
		entry.ErrorMessage = triggerErr.Error()
		entry.CompletedAt = &completed
	}
	if err := s.Logs.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "Failed to record workflow trigger", "workflowType", name, "error", err)
	}
}
