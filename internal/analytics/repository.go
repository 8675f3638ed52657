package analytics

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const selectAllQuery = `SELECT rating, category FROM feedback`

type RepositoryAPI interface {
	ReadAll(ctx context.Context) ([]Row, error)
}

// Repository reads the feedback table through sqlx.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ReadAll(ctx context.Context) ([]Row, error) {
	var rows []Row
	if err := r.db.SelectContext(ctx, &rows, selectAllQuery); err != nil {
		return nil, err
	}
	return rows, nil
}
