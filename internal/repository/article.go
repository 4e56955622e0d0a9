package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
)

type ArticleRepository struct {
	db DBTX
}

func NewArticleRepository(db DBTX) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleQuery = `
	SELECT
		a.id, a.title, a.content, a.references, a.image, a.created_at,
		COALESCE(
			json_agg(json_build_object('id', c.id, 'name', c.name))
				FILTER (WHERE c.id IS NOT NULL),
			'[]'
		)
	FROM articles a
	LEFT JOIN article_categories ac ON ac.article_id = a.id
	LEFT JOIN categories c ON c.id = ac.category_id`

func scanArticle(row pgx.Row) (model.Article, error) {
	var a model.Article
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.References, &a.Image, &a.CreatedAt, &a.Categories)
	return a, err
}

func (r *ArticleRepository) List(ctx context.Context) ([]model.Article, error) {
	rows, err := r.db.Query(ctx, articleQuery+` GROUP BY a.id ORDER BY a.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx, articleQuery+` WHERE a.id = $1 GROUP BY a.id`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}
