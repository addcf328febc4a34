package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// KnowledgeRepository stores knowledge base articles. The retrieval index is
// built in memory from List; the repository is the durable source of truth.
type KnowledgeRepository interface {
	Create(ctx context.Context, article *domain.KnowledgeArticle) error
	List(ctx context.Context) ([]domain.KnowledgeArticle, error)
	Count(ctx context.Context) (int64, error)
}

type knowledgeRepository struct {
	pool *pgxpool.Pool
}

// NewKnowledgeRepository instantiates repository.
func NewKnowledgeRepository(pool *pgxpool.Pool) KnowledgeRepository {
	return &knowledgeRepository{pool: pool}
}

func (r *knowledgeRepository) Create(ctx context.Context, article *domain.KnowledgeArticle) error {
	const query = `
        INSERT INTO knowledge_base (title, content, tags)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, article.Title, article.Content, article.Tags).Scan(&article.ID)
}

func (r *knowledgeRepository) List(ctx context.Context) ([]domain.KnowledgeArticle, error) {
	const query = `SELECT id, title, content, tags FROM knowledge_base ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.KnowledgeArticle
	for rows.Next() {
		var article domain.KnowledgeArticle
		if err := rows.Scan(&article.ID, &article.Title, &article.Content, &article.Tags); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func (r *knowledgeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_base`).Scan(&count)
	return count, err
}
