package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
	"github.com/RealZimboGuy/newsflow/internal/n8n"
)

// ApprovalRepo defines the approval store boundary, matching repository.ApprovalRepository.
// Lookups return (nil, nil) when the row does not exist.
type ApprovalRepo interface {
	Save(ctx context.Context, a *domain.Approval) error
	FindByID(ctx context.Context, id string) (*domain.Approval, error)
	FindPending(ctx context.Context, userID string) ([]domain.Approval, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Approval, error)
	FindUpdatedSince(ctx context.Context, since time.Time, limit int) ([]domain.Approval, error)
	// UpdateIfStatus records a decision only while the row is still in the expected status.
	// It reports false when no row matched.
	UpdateIfStatus(ctx context.Context, id string, expected, next domain.ApprovalStatus, feedback, decidedBy string, decidedAt time.Time) (bool, error)
}

type ArticleRepo interface {
	FindRecent(ctx context.Context, filter models.ArticleFilter) ([]domain.Article, error)
}

type NewsletterRepo interface {
	FindHistory(ctx context.Context, limit int) ([]domain.Newsletter, error)
}

type WorkflowLogRepo interface {
	Save(ctx context.Context, l *domain.WorkflowLog) error
	FindRecent(ctx context.Context, limit int) ([]domain.WorkflowLog, error)
}

type UserRepo interface {
	FindByApiKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// StageNotifier delivers an advancement notification to a stage webhook, satisfied by *n8n.Client.
type StageNotifier interface {
	Notify(ctx context.Context, stage string, n models.AdvancementNotification, idempotencyKey string) error
}

// WorkflowTrigger starts a top-level workflow, satisfied by *n8n.Client.
type WorkflowTrigger interface {
	TriggerWorkflow(ctx context.Context, workflowType string, cfg json.RawMessage) (any, error)
}

// ExecutionSource reads execution status, satisfied by *n8n.Client.
type ExecutionSource interface {
	GetExecution(ctx context.Context, id string) (json.RawMessage, error)
	ListExecutions(ctx context.Context, limit int) ([]n8n.Execution, error)
}

// ApprovalStats is the read the health endpoint makes, satisfied by *repository.ApprovalRepository.
type ApprovalStats interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ApprovalChanges is told about approval writes made through this service, satisfied by *ChangeWatcher.
type ApprovalChanges interface {
	Wakeup()
}
