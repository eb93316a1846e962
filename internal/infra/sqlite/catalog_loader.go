package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"timed-quiz-service/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS quiz_catalog (
	name       TEXT PRIMARY KEY CHECK (trim(name) <> ''),
	data       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// CatalogLoader reads quiz definitions from a local SQLite file, for offline setups
// without Postgres. Rows hold the same JSON documents as the Postgres catalog.
type CatalogLoader struct {
	db *sql.DB
}

// Open opens the catalog file and makes sure the table exists.
func Open(ctx context.Context, path string) (*CatalogLoader, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog table: %w", err)
	}
	return &CatalogLoader{db: db}, nil
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) ([]domain.QuizSpec, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT name, data FROM quiz_catalog ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var specs []domain.QuizSpec
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		var spec domain.QuizSpec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
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

// Put stores or replaces one quiz document. Used to seed a catalog file.
func (l *CatalogLoader) Put(ctx context.Context, spec domain.QuizSpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO quiz_catalog (name, data) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		spec.Name, string(data))
	return err
}

func (l *CatalogLoader) Close() error {
	return l.db.Close()
}
