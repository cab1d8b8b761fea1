package repository

import (
	"context"
	"database/sql"

	"github.com/RealZimboGuy/newsflow/internal/domain"
)

type WorkflowLogRepository struct {
	db *sql.DB
}

func NewWorkflowLogRepository(db *sql.DB) *WorkflowLogRepository {
	return &WorkflowLogRepository{db: db}
}

const WORKFLOW_LOG_COLUMNS = ` id, workflow_id, workflow_name, workflow_type, status, step_name, error_message,
		       items_processed, started_at, completed_at `

func (r *WorkflowLogRepository) Save(ctx context.Context, l *domain.WorkflowLog) error {
	vals := []interface{}{l.ID, l.WorkflowID, l.WorkflowName, l.WorkflowType, l.Status, l.StepName, l.ErrorMessage,
		l.ItemsProcessed, formatDateInDatabase(l.StartedAt), formatDateInDatabasePtr(l.CompletedAt)}
	query := `INSERT INTO workflow_logs (` + WORKFLOW_LOG_COLUMNS + `) VALUES (` + placeholders(1, len(vals)) + `)`
	_, err := r.db.ExecContext(ctx, query, vals...)
	return err
}

// FindRecent returns the newest log lines first, a hundred by default.
func (r *WorkflowLogRepository) FindRecent(ctx context.Context, limit int) ([]domain.WorkflowLog, error) {
	query := `SELECT ` + WORKFLOW_LOG_COLUMNS + ` FROM workflow_logs ORDER BY started_at DESC LIMIT ` + limitOrDefault(limit, 100)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.WorkflowLog, 0)
	for rows.Next() {
		var l domain.WorkflowLog
		if err := rows.Scan(
			&l.ID,
			&l.WorkflowID,
			&l.WorkflowName,
			&l.WorkflowType,
			&l.Status,
			&l.StepName,
			&l.ErrorMessage,
			&l.ItemsProcessed,
			&l.StartedAt,
			&l.CompletedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
