package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"timed-quiz-service/internal/domain"
)

// Catalog is the on-disk layout of a quiz catalog file.
type Catalog struct {
	Quizzes []domain.QuizSpec `yaml:"quizzes"`
}

// CatalogLoader reads quiz definitions from a YAML file.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

func (l *CatalogLoader) LoadCatalog(_ context.Context) ([]domain.QuizSpec, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML.
func ParseCatalog(data []byte) ([]domain.QuizSpec, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return c.Quizzes, nil
}
