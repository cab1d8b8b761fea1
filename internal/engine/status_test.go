package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/n8n"
	"github.com/RealZimboGuy/newsflow/internal/testutil"
)

func executions(t *testing.T, raw string) []n8n.Execution {
	t.Helper()
	var list []n8n.Execution
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return list
}

func TestWorkflowStatus_ByIDReturnsExecutionVerbatim(t *testing.T) {
	raw := json.RawMessage(`{"id":"42","finished":false,"custom":{"nested":true}}`)
	var gotID string
	src := &testutil.MockExecutionSource{
		GetExecutionFunc: func(ctx context.Context, id string) (json.RawMessage, error) {
			gotID = id
			return raw, nil
		},
	}
	s := NewStatusService(src, nil, 10, testutil.NewFakeClock(fixedNow))

	resp, err := s.WorkflowStatus(context.Background(), "42", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "42" {
		t.Errorf("expected execution 42 to be fetched, got %q", gotID)
	}
	if string(resp.Workflow.(json.RawMessage)) != string(raw) {
		t.Errorf("execution was not passed through: %s", resp.Workflow)
	}
	if resp.LastUpdated != "2025-08-04T09:30:00.123Z" {
		t.Errorf("unexpected lastUpdated %s", resp.LastUpdated)
	}
}

func TestWorkflowStatus_RecentIsReshapedAndFiltered(t *testing.T) {
	var gotLimit int
	src := &testutil.MockExecutionSource{
		ListExecutionsFunc: func(ctx context.Context, limit int) ([]n8n.Execution, error) {
			gotLimit = limit
			return executions(t, `[
				{"id":"1","finished":true,"startedAt":"2025-08-04T08:00:00Z","stoppedAt":"2025-08-04T08:01:00Z","workflowData":{"name":"Data Ingestion"}},
				{"id":"2","finished":false,"startedAt":"2025-08-04T09:00:00Z","workflowData":{"name":"Newsletter Generation"},"data":{"resultData":{"error":{"message":"boom"}}}}
			]`), nil
		},
	}
	s := NewStatusService(src, nil, 5, testutil.NewFakeClock(fixedNow))

	resp, err := s.WorkflowStatus(context.Background(), "", "all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", gotLimit)
	}
	recent := resp.Workflow.(models.RecentExecutions).Recent
	if len(recent) != 2 {
		t.Fatalf("expected 2 executions, got %d", len(recent))
	}
	if recent[0].Status != "completed" || recent[1].Status != "running" {
		t.Errorf("status must follow the finished flag: %+v", recent)
	}
	if recent[1].EndTime != nil || recent[1].Error == nil {
		t.Errorf("unexpected reshape %+v", recent[1])
	}

	resp, err = s.WorkflowStatus(context.Background(), "", "data-ingestion")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recent = resp.Workflow.(models.RecentExecutions).Recent
	if len(recent) != 1 || recent[0].ID != "1" {
		t.Errorf("expected only the ingestion run, got %+v", recent)
	}
}

func TestWorkflowStatus_UpstreamFailure(t *testing.T) {
	src := &testutil.MockExecutionSource{
		GetExecutionFunc: func(ctx context.Context, id string) (json.RawMessage, error) {
			return nil, &models.DownstreamError{Collaborator: "workflow engine", StatusCode: 404, Status: "404 Not Found"}
		},
	}
	s := NewStatusService(src, nil, 10, nil)
	_, err := s.WorkflowStatus(context.Background(), "missing", "")
	var de *models.DownstreamError
	if !errors.As(err, &de) || de.StatusCode != 404 {
		t.Fatalf("expected the upstream 404, got %v", err)
	}
}

func TestWorkflowStatus_PendingFallsBackToDemoList(t *testing.T) {
	s := NewStatusService(&testutil.MockExecutionSource{}, &testutil.MockApprovalRepo{}, 10, testutil.NewFakeClock(fixedNow))
	resp, err := s.WorkflowStatus(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.PendingApprovals) != 2 {
		t.Fatalf("expected the demo list, got %+v", resp.PendingApprovals)
	}
	first := resp.PendingApprovals[0]
	if first.ID != "stories-001" || first.Title != "Story Selection for Week 32" {
		t.Errorf("unexpected first demo approval %+v", first)
	}
	if !first.CreatedAt.Equal(fixedNow.Add(-15 * time.Minute)) {
		t.Errorf("unexpected createdAt %s", first.CreatedAt)
	}
	if resp.Workflow.(models.RecentExecutions).Recent == nil {
		t.Error("recent must be an empty list, not null")
	}
}

func TestWorkflowStatus_PendingFromStore(t *testing.T) {
	repo := &testutil.MockApprovalRepo{
		FindPendingFunc: func(ctx context.Context, userID string) ([]domain.Approval, error) {
			return []domain.Approval{{ID: "a1", ApprovalType: domain.ApprovalTypeImages, Title: "Header image", Status: domain.ApprovalStatusPending}}, nil
		},
	}
	s := NewStatusService(&testutil.MockExecutionSource{}, repo, 10, nil)
	resp, err := s.WorkflowStatus(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.PendingApprovals) != 1 || resp.PendingApprovals[0].ID != "a1" {
		t.Errorf("expected store row, got %+v", resp.PendingApprovals)
	}
}

func TestMatchesWorkflowType(t *testing.T) {
	if !matchesWorkflowType("Newsletter Generation", "newsletter-generation") {
		t.Error("hyphenated type should match a spaced name")
	}
	if !matchesWorkflowType("anything", "") || !matchesWorkflowType("anything", "ALL") {
		t.Error("empty and all keep everything")
	}
	if matchesWorkflowType("Publishing", "data-ingestion") {
		t.Error("unrelated names must not match")
	}
}
