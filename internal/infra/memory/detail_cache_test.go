package memory

import (
	"context"
	"testing"
	"time"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/domain"
)

func TestDetailCacheCaches(t *testing.T) {
	store := seededStore(t)
	source := &countingSource{
		QuizDetailSource: app.NewRepositoryDetailSource(store.Quizzes(), store.Questions()),
	}
	cache := NewDetailCache(source, time.Minute)

	detail, err := cache.QuizDetail(context.Background(), 1)
	if err != nil {
		t.Fatalf("quiz detail: %v", err)
	}
	if len(detail.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(detail.Questions))
	}
	if source.calls != 1 {
		t.Fatalf("expected source once, got %d", source.calls)
	}

	if _, err := cache.QuizDetail(context.Background(), 1); err != nil {
		t.Fatalf("quiz detail 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls %d", source.calls)
	}
}

func TestDetailCacheExpires(t *testing.T) {
	store := seededStore(t)
	source := &countingSource{
		QuizDetailSource: app.NewRepositoryDetailSource(store.Quizzes(), store.Questions()),
	}
	cache := NewDetailCache(source, time.Minute)

	now := time.Now()
	cache.clock = func() time.Time { return now }

	if _, err := cache.QuizDetail(context.Background(), 1); err != nil {
		t.Fatalf("quiz detail: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.QuizDetail(context.Background(), 1); err != nil {
		t.Fatalf("quiz detail after expiry: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected reload after expiry, source calls %d", source.calls)
	}
}

func TestDetailCacheMissPassesThrough(t *testing.T) {
	store := NewStore()
	source := &countingSource{
		QuizDetailSource: app.NewRepositoryDetailSource(store.Quizzes(), store.Questions()),
	}
	cache := NewDetailCache(source, time.Minute)

	if _, err := cache.QuizDetail(context.Background(), 42); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	// errors are not cached
	if _, err := cache.QuizDetail(context.Background(), 42); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound again, got %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected source twice, got %d", source.calls)
	}
}

type countingSource struct {
	app.QuizDetailSource
	calls int
}

func (s *countingSource) QuizDetail(ctx context.Context, quizID int64) (domain.QuizDetail, error) {
	s.calls++
	return s.QuizDetailSource.QuizDetail(ctx, quizID)
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	quiz := domain.Quiz{Title: "Geography", OwnerID: 99, IsPublished: true}
	if err := store.Quizzes().Create(context.Background(), &quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	questions := []domain.Question{
		{QuizID: quiz.ID, Text: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectIndex: 0, Order: 1},
		{QuizID: quiz.ID, Text: "Longest river?", Options: []string{"Nile", "Amazon"}, CorrectIndex: 0, Order: 2},
	}
	for i := range questions {
		if err := store.Questions().Create(context.Background(), &questions[i]); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	return store
}
