package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/domain"
	"online-quiz-service/internal/infra/memory"
)

func TestDetailCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := seededSource(t)
	cache := NewDetailCache(newClient(mr), source, time.Minute)

	detail, err := cache.QuizDetail(context.Background(), 1)
	if err != nil {
		t.Fatalf("quiz detail: %v", err)
	}
	if detail.Quiz.Title != "Geography" {
		t.Fatalf("unexpected quiz: %+v", detail.Quiz)
	}
	if len(detail.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(detail.Questions))
	}
	if source.calls != 1 {
		t.Fatalf("expected source called once, got %d", source.calls)
	}

	// Second call should hit Redis, source not incremented.
	cached, err := cache.QuizDetail(context.Background(), 1)
	if err != nil {
		t.Fatalf("quiz detail 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls=%d", source.calls)
	}
	if cached.Questions[0].CorrectIndex != detail.Questions[0].CorrectIndex {
		t.Fatalf("cached entry lost the correct index")
	}
}

func TestDetailCacheExpiresInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := seededSource(t)
	cache := NewDetailCache(newClient(mr), source, time.Minute)

	if _, err := cache.QuizDetail(context.Background(), 1); err != nil {
		t.Fatalf("quiz detail: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.QuizDetail(context.Background(), 1); err != nil {
		t.Fatalf("quiz detail after expiry: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected reload after expiry, source calls=%d", source.calls)
	}
}

func TestDetailCacheMissPassesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := seededSource(t)
	cache := NewDetailCache(newClient(mr), source, time.Minute)

	if _, err := cache.QuizDetail(context.Background(), 42); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
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

func seededSource(t *testing.T) *countingSource {
	t.Helper()
	store := memory.NewStore()
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
	return &countingSource{
		QuizDetailSource: app.NewRepositoryDetailSource(store.Quizzes(), store.Questions()),
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
