package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/testutil"
)

func TestTriggerWorkflow_StartsKnownWorkflow(t *testing.T) {
	var gotType string
	var gotCfg json.RawMessage
	trigger := &testutil.MockWorkflowTrigger{
		TriggerWorkflowFunc: func(ctx context.Context, workflowType string, cfg json.RawMessage) (any, error) {
			gotType, gotCfg = workflowType, cfg
			return "wf-77", nil
		},
	}
	logs := &testutil.MockWorkflowLogRepo{}
	s := NewTriggerService(trigger, logs, testutil.NewFakeClock(fixedNow))

	resp, err := s.TriggerWorkflow(context.Background(), models.TriggerWorkflowRequest{
		WorkflowType: "content-approval",
		Config:       json.RawMessage(`{"week":32}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.WorkflowID != "wf-77" || resp.Status != "triggered" {
		t.Errorf("unexpected response %+v", resp)
	}
	if gotType != "content-approval" || string(gotCfg) != `{"week":32}` {
		t.Errorf("unexpected trigger call %s %s", gotType, gotCfg)
	}
	if len(logs.Saved) != 1 {
		t.Fatalf("expected one log entry, got %d", len(logs.Saved))
	}
	entry := logs.Saved[0]
	if entry.WorkflowType != domain.WorkflowTypeApprovalProcessing || entry.WorkflowID != "wf-77" || entry.Status != domain.WorkflowLogStatusStarted {
		t.Errorf("unexpected log entry %+v", entry)
	}
}

func TestTriggerWorkflow_UnknownType(t *testing.T) {
	called := false
	trigger := &testutil.MockWorkflowTrigger{
		TriggerWorkflowFunc: func(ctx context.Context, workflowType string, cfg json.RawMessage) (any, error) {
			called = true
			return nil, nil
		},
	}
	s := NewTriggerService(trigger, nil, nil)
	_, err := s.TriggerWorkflow(context.Background(), models.TriggerWorkflowRequest{WorkflowType: "publish-newsletter"})
	if !errors.Is(err, ErrUnknownWorkflowType) {
		t.Fatalf("expected ErrUnknownWorkflowType, got %v", err)
	}
	if called {
		t.Error("unknown types must not reach the engine")
	}
}

func TestTriggerWorkflow_EngineFailureIsReturned(t *testing.T) {
	upstream := &models.DownstreamError{Collaborator: "workflow engine", StatusCode: 503, Status: "503 Service Unavailable"}
	trigger := &testutil.MockWorkflowTrigger{
		TriggerWorkflowFunc: func(ctx context.Context, workflowType string, cfg json.RawMessage) (any, error) {
			return nil, upstream
		},
	}
	logs := &testutil.MockWorkflowLogRepo{}
	s := NewTriggerService(trigger, logs, nil)
	_, err := s.TriggerWorkflow(context.Background(), models.TriggerWorkflowRequest{WorkflowType: "data-ingestion"})
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(logs.Saved) != 1 || logs.Saved[0].Status != domain.WorkflowLogStatusFailed {
		t.Errorf("expected a failed log entry, got %+v", logs.Saved)
	}
}
