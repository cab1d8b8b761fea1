package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/pkg/newsflow/core"
)

// ApprovalRepository provides persistence methods for the approvals table.
type ApprovalRepository struct {
	db    *sql.DB
	clock core.Clock
}

const APPROVAL_COLUMNS = ` id, approval_type, item_id, workflow_id, title, description, data, status,
		       feedback, requesting_user_id, decided_by, created_at, decided_at, updated_at `

func NewApprovalRepository(db *sql.DB, clock core.Clock) *ApprovalRepository {
	return &ApprovalRepository{db: db, clock: clock}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApproval(s rowScanner) (domain.Approval, error) {
	var a domain.Approval
	err := s.Scan(
		&a.ID,
		&a.ApprovalType,
		&a.ItemID,
		&a.WorkflowID,
		&a.Title,
		&a.Description,
		&a.Data,
		&a.Status,
		&a.Feedback,
		&a.RequestingUserID,
		&a.DecidedBy,
		&a.CreatedAt,
		&a.DecidedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *ApprovalRepository) queryApprovals(ctx context.Context, query string, args ...any) ([]domain.Approval, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	approvals := make([]domain.Approval, 0)
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return approvals, nil
}

// Save inserts a new approval. Created and updated timestamps default to now and status to pending.
func (r *ApprovalRepository) Save(ctx context.Context, a *domain.Approval) error {
	now := r.clock.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Status == "" {
		a.Status = domain.ApprovalStatusPending
	}
	vals := []interface{}{a.ID, a.ApprovalType, a.ItemID, a.WorkflowID, a.Title, a.Description, a.Data, a.Status,
		a.Feedback, a.RequestingUserID, a.DecidedBy, formatDateInDatabase(a.CreatedAt), formatDateInDatabaseNull(a.DecidedAt),
		formatDateInDatabase(a.UpdatedAt)}
	query := `INSERT INTO approvals (` + APPROVAL_COLUMNS + `) VALUES (` + placeholders(1, len(vals)) + `)`
	_, err := r.db.ExecContext(ctx, query, vals...)
	return err
}

// FindByID returns (nil, nil) if the approval does not exist.
func (r *ApprovalRepository) FindByID(ctx context.Context, id string) (*domain.Approval, error) {
	query := `SELECT ` + APPROVAL_COLUMNS + ` FROM approvals WHERE id = ` + placeholder(1)
	a, err := scanApproval(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindPending returns undecided approvals, newest first, optionally only those requested by userID.
func (r *ApprovalRepository) FindPending(ctx context.Context, userID string) ([]domain.Approval, error) {
	query := `SELECT ` + APPROVAL_COLUMNS + ` FROM approvals WHERE status = ` + placeholder(1)
	args := []any{domain.ApprovalStatusPending}
	if userID != "" {
		query += ` AND requesting_user_id = ` + placeholder(2)
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`
	return r.queryApprovals(ctx, query, args...)
}

// FindRecent returns approvals newest first, 50 when limit is not positive.
func (r *ApprovalRepository) FindRecent(ctx context.Context, limit int) ([]domain.Approval, error) {
	query := `SELECT ` + APPROVAL_COLUMNS + ` FROM approvals ORDER BY created_at DESC LIMIT ` + limitOrDefault(limit, 50)
	return r.queryApprovals(ctx, query)
}

// FindUpdatedSince returns approvals whose updated_at is at or after since, oldest change first.
func (r *ApprovalRepository) FindUpdatedSince(ctx context.Context, since time.Time, limit int) ([]domain.Approval, error) {
	query := `SELECT ` + APPROVAL_COLUMNS + ` FROM approvals WHERE ` + dateAtOrAfter("updated_at", 1) +
		` ORDER BY updated_at ASC LIMIT ` + placeholder(2)
	return r.queryApprovals(ctx, query, formatDateInDatabase(since), limit)
}

// UpdateIfStatus records the decision only while the row still has the expected status, so two
// concurrent decisions on one approval cannot both succeed.
func (r *ApprovalRepository) UpdateIfStatus(ctx context.Context, id string, expected, next domain.ApprovalStatus,
	feedback, decidedBy string, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE approvals
		SET status = ` + placeholder(1) + `, feedback = ` + placeholder(2) + `, decided_by = ` + placeholder(3) + `,
		    decided_at = ` + placeholder(4) + `, updated_at = ` + placeholder(5) + `
		WHERE id = ` + placeholder(6) + ` AND status = ` + placeholder(7) + `
	`
	ts := formatDateInDatabase(decidedAt)
	result, err := r.db.ExecContext(ctx, query, next, feedback, decidedBy, ts, ts, id, expected)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

// CountByStatus returns the number of approvals per status, used by the health endpoint.
func (r *ApprovalRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM approvals GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func limitOrDefault(limit, def int) string {
	if limit <= 0 {
		limit = def
	}
	return strconv.Itoa(limit)
}
