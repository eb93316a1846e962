package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"timed-quiz-service/internal/domain"
)

// CatalogLoader reads quiz definitions stored as JSONB in the quiz_catalog table.
// The service only reads from it.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) ([]domain.QuizSpec, error) {
	rows, err := l.pool.Query(ctx, `SELECT name, data FROM quiz_catalog ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var specs []domain.QuizSpec
	for rows.Next() {
		var (
			name string
			raw  []byte
		)
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		var spec domain.QuizSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, fmt.Errorf("unmarshal quiz %q: %w", name, err)
		}
		spec.Name = name
		specs = append(specs, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return specs, nil
}
