package repository

import (
	"context"
	"database/sql"

	"github.com/RealZimboGuy/newsflow/internal/domain"
	"github.com/RealZimboGuy/newsflow/internal/models"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const ARTICLE_COLUMNS = ` id, title, summary, url, source, source_type, ai_score, ai_relevant, ai_reason,
		       word_count, status, published_date, scraped_date, created_at `

// Save inserts an article as written by the ingestion workflow.
func (r *ArticleRepository) Save(ctx context.Context, a *domain.Article) error {
	vals := []interface{}{a.ID, a.Title, a.Summary, a.URL, a.Source, a.SourceType, a.AiScore, a.AiRelevant, a.AiReason,
		a.WordCount, a.Status, formatDateInDatabasePtr(a.PublishedDate), formatDateInDatabase(a.ScrapedDate),
		formatDateInDatabase(a.CreatedAt)}
	query := `INSERT INTO articles (` + ARTICLE_COLUMNS + `) VALUES (` + placeholders(1, len(vals)) + `)`
	_, err := r.db.ExecContext(ctx, query, vals...)
	return err
}

// FindRecent returns articles newest scraped first, narrowed by the filter.
func (r *ArticleRepository) FindRecent(ctx context.Context, filter models.ArticleFilter) ([]domain.Article, error) {
	query := `SELECT ` + ARTICLE_COLUMNS + ` FROM articles`
	var conditions []string
	var args []any
	if filter.Relevant != nil {
		args = append(args, *filter.Relevant)
		conditions = append(conditions, "ai_relevant = "+placeholder(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "status = "+placeholder(len(args)))
	}
	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += ` ORDER BY scraped_date DESC LIMIT ` + limitOrDefault(filter.Limit, 50)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]domain.Article, 0)
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Summary,
			&a.URL,
			&a.Source,
			&a.SourceType,
			&a.AiScore,
			&a.AiRelevant,
			&a.AiReason,
			&a.WordCount,
			&a.Status,
			&a.PublishedDate,
			&a.ScrapedDate,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}
