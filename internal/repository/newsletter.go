package repository

import (
	"context"
	"database/sql"

	"github.com/RealZimboGuy/newsflow/internal/domain"
)

type NewsletterRepository struct {
	db *sql.DB
}

func NewNewsletterRepository(db *sql.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

const NEWSLETTER_COLUMNS = ` id, subject, preheader, word_count, status, workflow_id, opens, clicks, sent_count,
		       created_at, approved_at, published_at `

func (r *NewsletterRepository) Save(ctx context.Context, n *domain.Newsletter) error {
	vals := []interface{}{n.ID, n.Subject, n.Preheader, n.WordCount, n.Status, n.WorkflowID, n.Opens, n.Clicks,
		n.SentCount, formatDateInDatabase(n.CreatedAt), formatDateInDatabasePtr(n.ApprovedAt),
		formatDateInDatabasePtr(n.PublishedAt)}
	query := `INSERT INTO newsletters (` + NEWSLETTER_COLUMNS + `) VALUES (` + placeholders(1, len(vals)) + `)`
	_, err := r.db.ExecContext(ctx, query, vals...)
	return err
}

// FindHistory returns the newest newsletters first, ten by default.
func (r *NewsletterRepository) FindHistory(ctx context.Context, limit int) ([]domain.Newsletter, error) {
	query := `SELECT ` + NEWSLETTER_COLUMNS + ` FROM newsletters ORDER BY created_at DESC LIMIT ` + limitOrDefault(limit, 10)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	newsletters := make([]domain.Newsletter, 0)
	for rows.Next() {
		var n domain.Newsletter
		if err := rows.Scan(
			&n.ID,
			&n.Subject,
			&n.Preheader,
			&n.WordCount,
			&n.Status,
			&n.WorkflowID,
			&n.Opens,
			&n.Clicks,
			&n.SentCount,
			&n.CreatedAt,
			&n.ApprovedAt,
			&n.PublishedAt,
		); err != nil {
			return nil, err
		}
		newsletters = append(newsletters, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return newsletters, nil
}
