package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"

	"github.com/google/uuid"
)

// Decision is one human verdict on one approval item.
type Decision struct {
	ItemID       string
	ApprovalType domain.ApprovalType
	Approved     *bool
	Feedback     string
	UserID       string
}

type AdvancementResult struct {
	NextStep string
	Stage    string // empty when nothing was triggered
	Notified bool   // the stage webhook accepted the notification
	Approval models.ApprovalEcho
}

// Advancer decides what happens after a decision and notifies the workflow engine of the next stage.
// Recorder and Logs are optional; without a Recorder every call is handled statelessly.
type Advancer struct {
	Notifier StageNotifier
	Recorder ApprovalRepo
	Logs     WorkflowLogRepo
	clock    core.Clock
}

func NewAdvancer(notifier StageNotifier, recorder ApprovalRepo, logs WorkflowLogRepo, clock core.Clock) *Advancer {
	if clock == nil {
		clock = core.NewRealClock()
	}
	return &Advancer{Notifier: notifier, Recorder: recorder, Logs: logs, clock: clock}
}

func validateDecision(d Decision) error {
	var missing []string
	if strings.TrimSpace(d.ItemID) == "" {
		missing = append(missing, "itemId")
	}
	if strings.TrimSpace(d.UserID) == "" {
		missing = append(missing, "userId")
	}
	if d.Approved == nil {
		missing = append(missing, "approved")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}

// Advance applies the decision. A rejection pauses the pipeline without contacting the engine.
// An approval triggers at most one stage; delivery failures are logged and recorded but do not
// change the reported next step.
func (a *Advancer) Advance(ctx context.Context, d Decision) (AdvancementResult, error) {
	if err := validateDecision(d); err != nil {
		return AdvancementResult{}, err
	}
	approved := *d.Approved
	now := a.clock.Now().UTC()

	approvalType, err := a.record(ctx, d, approved, now)
	if err != nil {
		return AdvancementResult{}, err
	}
	d.ApprovalType = approvalType

	result := AdvancementResult{
		NextStep: models.NextStepPaused,
		Approval: models.ApprovalEcho{
			ID:        d.ItemID,
			Type:      string(d.ApprovalType),
			Approved:  approved,
			Feedback:  d.Feedback,
			UserID:    d.UserID,
			Timestamp: now.Format(models.TimestampLayout),
		},
	}
	if !approved {
		slog.InfoContext(ctx, "Approval rejected, workflow paused", "itemId", d.ItemID, "type", d.ApprovalType, "userId", d.UserID)
		return result, nil
	}
	result.NextStep = models.NextStepContinued

	stage, ok := NextStage(d.ApprovalType)
	if !ok {
		slog.WarnContext(ctx, "No stage mapped for approval type", "itemId", d.ItemID, "type", d.ApprovalType)
		return result, nil
	}
	result.Stage = stage

	notification := models.AdvancementNotification{
		ApprovedItemID: d.ItemID,
		Feedback:       d.Feedback,
		UserID:         d.UserID,
	}
	err = a.Notifier.Notify(ctx, stage, notification, uuid.NewString())
	if err != nil {
		slog.ErrorContext(ctx, "Stage notification failed", "itemId", d.ItemID, "stage", stage, "error", err)
	} else {
		result.Notified = true
		slog.InfoContext(ctx, "Workflow continued", "itemId", d.ItemID, "stage", stage)
	}
	a.logDelivery(ctx, d.ItemID, stage, now, err)
	return result, nil
}

// record performs the conditional pending -> decided update and returns the approval type that picks
// the next stage. A tracked row's stored type wins over the one in the request. Items the store does
// not track are let through so decisions on engine-side items still advance the pipeline.
func (a *Advancer) record(ctx context.Context, d Decision, approved bool, now time.Time) (domain.ApprovalType, error) {
	if a.Recorder == nil {
		return d.ApprovalType, nil
	}
	existing, err := a.Recorder.FindByID(ctx, d.ItemID)
	if err != nil {
		return "", &models.DownstreamError{Collaborator: "approval store", Err: err}
	}
	if existing == nil {
		slog.WarnContext(ctx, "Approval not tracked in store, advancing untracked", "itemId", d.ItemID)
		return d.ApprovalType, nil
	}
	next := domain.ApprovalStatusRejected
	if approved {
		next = domain.ApprovalStatusApproved
	}
	updated, err := a.Recorder.UpdateIfStatus(ctx, d.ItemID, domain.ApprovalStatusPending, next, d.Feedback, d.UserID, now)
	if err != nil {
		return "", &models.DownstreamError{Collaborator: "approval store", Err: err}
	}
	if !updated {
		status := existing.Status
		if current, err := a.Recorder.FindByID(ctx, d.ItemID); err == nil && current != nil {
			status = current.Status
		}
		return "", &models.ConflictError{ApprovalID: d.ItemID, Status: string(status)}
	}
	if existing.ApprovalType != "" && existing.ApprovalType != d.ApprovalType {
		slog.WarnContext(ctx, "Decision type differs from stored approval, using stored type",
			"itemId", d.ItemID, "requested", d.ApprovalType, "stored", existing.ApprovalType)
		return existing.ApprovalType, nil
	}
	return d.ApprovalType, nil
}

func (a *Advancer) logDelivery(ctx context.Context, itemID, stage string, started time.Time, deliveryErr error) {
	if a.Logs == nil {
		return
	}
	completed := a.clock.Now().UTC()
	entry := &domain.WorkflowLog{
		ID:             uuid.NewString(),
		WorkflowID:     itemID,
		WorkflowName:   stage,
		WorkflowType:   domain.WorkflowTypeApprovalProcessing,
		Status:         domain.WorkflowLogStatusCompleted,
		StepName:       stage,
		ItemsProcessed: 1,
		StartedAt:      started,
		CompletedAt:    &completed,
	}
	if deliveryErr != nil {
		entry.Status = domain.WorkflowLogStatusFailed
		entry.ErrorMessage = deliveryErr.Error()
		entry.ItemsProcessed = 0
	}
	if err := a.Logs.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "Failed to record stage delivery", "itemId", itemID, "stage", stage, "error", err)
	}
}
