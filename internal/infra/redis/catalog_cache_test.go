package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"timed-quiz-service/internal/domain"
)

func TestCatalogCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{specs: sampleCatalog()}
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)

	specs, err := cache.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if loader.calls != 1 || len(specs) != 2 {
		t.Fatalf("expected loader called once with 2 specs, got calls=%d specs=%d", loader.calls, len(specs))
	}
	if !mr.Exists(catalogNamesKey) || !mr.Exists(catalogSpecsKey) {
		t.Fatalf("expected catalog keys in redis")
	}
	if ttl := mr.TTL(catalogSpecsKey); ttl < time.Minute {
		t.Fatalf("expected ttl of at least one minute, got %s", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := cache.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load cached: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached[0].Name != "Math" || cached[1].Name != "Letters" {
		t.Fatalf("expected catalog order kept, got %s, %s", cached[0].Name, cached[1].Name)
	}
	if q := cached[1].Questions[0]; q.Prompt != "Pick A" || q.Correct != 1 || len(q.Choices) != 2 {
		t.Fatalf("unexpected cached question %+v", q)
	}
}

func TestCatalogCacheReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{specs: sampleCatalog()}
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)

	_, _ = cache.LoadCatalog(context.Background())
	mr.FastForward(2 * time.Minute)
	_, _ = cache.LoadCatalog(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestCatalogCacheKeepsFirstOfDuplicateNames(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{specs: []domain.QuizSpec{
		{Name: "Math", Questions: []domain.QuestionDraft{{Prompt: "first", Choices: []string{"1", "2"}, Correct: 1}}},
		{Name: "Letters", Questions: []domain.QuestionDraft{{Prompt: "Pick A", Choices: []string{"A", "B"}, Correct: 1}}},
		{Name: "Math", Questions: []domain.QuestionDraft{{Prompt: "second", Choices: []string{"1", "2"}, Correct: 2}}},
	}}
	cache := NewCatalogCache(newClient(mr), loader, time.Minute)

	miss, err := cache.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	hit, err := cache.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load cached: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	for label, specs := range map[string][]domain.QuizSpec{"miss": miss, "hit": hit} {
		if len(specs) != 2 || specs[0].Name != "Math" || specs[1].Name != "Letters" {
			t.Fatalf("%s: unexpected catalog %+v", label, specs)
		}
		if prompt := specs[0].Questions[0].Prompt; prompt != "first" {
			t.Fatalf("%s: expected the first Math spec, got %q", label, prompt)
		}
	}
}

type countingLoader struct {
	specs []domain.QuizSpec
	calls int
}

func (l *countingLoader) LoadCatalog(context.Context) ([]domain.QuizSpec, error) {
	l.calls++
	return l.specs, nil
}

func sampleCatalog() []domain.QuizSpec {
	return []domain.QuizSpec{
		{Name: "Math", Questions: []domain.QuestionDraft{{Prompt: "What is 2 + 2?", Choices: []string{"3", "4", "5", "6"}, Correct: 2}}},
		{Name: "Letters", Questions: []domain.QuestionDraft{{Prompt: "Pick A", Choices: []string{"A", "B"}, Correct: 1}}},
	}
}
