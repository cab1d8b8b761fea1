package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/n8n"
)

// MockApprovalRepo implements engine.ApprovalRepo; unset funcs behave like an empty store.
type MockApprovalRepo struct {
	SaveFunc             func(ctx context.Context, a *domain.Approval) error
	FindByIDFunc         func(ctx context.Context, id string) (*domain.Approval, error)
	FindPendingFunc      func(ctx context.Context, userID string) ([]domain.Approval, error)
	FindRecentFunc       func(ctx context.Context, limit int) ([]domain.Approval, error)
	FindUpdatedSinceFunc func(ctx context.Context, since time.Time, limit int) ([]domain.Approval, error)
	UpdateIfStatusFunc   func(ctx context.Context, id string, expected, next domain.ApprovalStatus, feedback, decidedBy string, decidedAt time.Time) (bool, error)
}

func (m *MockApprovalRepo) Save(ctx context.Context, a *domain.Approval) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, a)
	}
	return nil
}
func (m *MockApprovalRepo) FindByID(ctx context.Context, id string) (*domain.Approval, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}
func (m *MockApprovalRepo) FindPending(ctx context.Context, userID string) ([]domain.Approval, error) {
	if m.FindPendingFunc != nil {
		return m.FindPendingFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockApprovalRepo) FindRecent(ctx context.Context, limit int) ([]domain.Approval, error) {
	if m.FindRecentFunc != nil {
		return m.FindRecentFunc(ctx, limit)
	}
	return nil, nil
}
func (m *MockApprovalRepo) FindUpdatedSince(ctx context.Context, since time.Time, limit int) ([]domain.Approval, error) {
	if m.FindUpdatedSinceFunc != nil {
		return m.FindUpdatedSinceFunc(ctx, since, limit)
	}
	return nil, nil
}
func (m *MockApprovalRepo) UpdateIfStatus(ctx context.Context, id string, expected, next domain.ApprovalStatus, feedback, decidedBy string, decidedAt time.Time) (bool, error) {
	if m.UpdateIfStatusFunc != nil {
		return m.UpdateIfStatusFunc(ctx, id, expected, next, feedback, decidedBy, decidedAt)
	}
	return false, nil
}
// MockWorkflowLogRepo records every saved log.
type MockWorkflowLogRepo struct {
	mu    sync.Mutex
	Saved []domain.WorkflowLog
}

func (m *MockWorkflowLogRepo) Save(ctx context.Context, l *domain.WorkflowLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, *l)
	return nil
}
func (m *MockWorkflowLogRepo) FindRecent(ctx context.Context, limit int) ([]domain.WorkflowLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.WorkflowLog(nil), m.Saved...), nil
}

type NotifyCall struct {
	Stage          string
	Notification   models.AdvancementNotification
	IdempotencyKey string
}

// RecordingNotifier implements engine.StageNotifier, remembering each call and answering with Err.
type RecordingNotifier struct {
	mu    sync.Mutex
	Calls []NotifyCall
	Err   error
}

func (n *RecordingNotifier) Notify(ctx context.Context, stage string, notification models.AdvancementNotification, idempotencyKey string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Calls = append(n.Calls, NotifyCall{Stage: stage, Notification: notification, IdempotencyKey: idempotencyKey})
	return n.Err
}

func (n *RecordingNotifier) CallCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Calls)
}

// MockExecutionSource implements engine.ExecutionSource.
type MockExecutionSource struct {
	GetExecutionFunc   func(ctx context.Context, id string) (json.RawMessage, error)
	ListExecutionsFunc func(ctx context.Context, limit int) ([]n8n.Execution, error)
}

func (m *MockExecutionSource) GetExecution(ctx context.Context, id string) (json.RawMessage, error) {
	if m.GetExecutionFunc != nil {
		return m.GetExecutionFunc(ctx, id)
	}
	return json.RawMessage(`{}`), nil
}
func (m *MockExecutionSource) ListExecutions(ctx context.Context, limit int) ([]n8n.Execution, error) {
	if m.ListExecutionsFunc != nil {
		return m.ListExecutionsFunc(ctx, limit)
	}
	return nil, nil
}

// MockWorkflowTrigger implements engine.WorkflowTrigger.
type MockWorkflowTrigger struct {
	TriggerWorkflowFunc func(ctx context.Context, workflowType string, cfg json.RawMessage) (any, error)
}

func (m *MockWorkflowTrigger) TriggerWorkflow(ctx context.Context, workflowType string, cfg json.RawMessage) (any, error) {
	if m.TriggerWorkflowFunc != nil {
		return m.TriggerWorkflowFunc(ctx, workflowType, cfg)
	}
	return nil, nil
}
