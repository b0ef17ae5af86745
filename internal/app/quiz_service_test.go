package app_test

import (
	"context"
	"errors"
	"testing"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/domain"
	"online-quiz-service/internal/infra/memory"
)

func newQuizService(store *memory.Store) *app.QuizService {
	details := app.NewRepositoryDetailSource(store.Quizzes(), store.Questions())
	return app.NewQuizService(store.Quizzes(), store.Questions(), details)
}

func TestCreateQuizDefaultsToPublished(t *testing.T) {
	ctx := context.Background()
	service := newQuizService(memory.NewStore())

	quiz, err := service.CreateQuiz(ctx, 1, app.QuizInput{Title: "Geography", TimeLimitSeconds: 600})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if !quiz.IsPublished {
		t.Fatal("expected quiz to default to published")
	}
	if quiz.OwnerID != 1 {
		t.Fatalf("expected owner 1, got %d", quiz.OwnerID)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	ctx := context.Background()
	service := newQuizService(memory.NewStore())

	if _, err := service.CreateQuiz(ctx, 1, app.QuizInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty title: expected validation error, got %v", err)
	}
	if _, err := service.CreateQuiz(ctx, 1, app.QuizInput{Title: "x", TimeLimitSeconds: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative limit: expected validation error, got %v", err)
	}
}

func TestUpdateQuizChecksOwnership(t *testing.T) {
	ctx := context.Background()
	service := newQuizService(memory.NewStore())

	quiz, err := service.CreateQuiz(ctx, 1, app.QuizInput{Title: "Geography"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	if _, err := service.UpdateQuiz(ctx, 2, quiz.ID, app.QuizInput{Title: "Hijacked"}); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// A missing quiz reads as not found, not as an ownership failure.
	if _, err := service.UpdateQuiz(ctx, 2, 999, app.QuizInput{Title: "x"}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	updated, err := service.UpdateQuiz(ctx, 1, quiz.ID, app.QuizInput{Title: "World Geography"})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "World Geography" {
		t.Fatalf("unexpected title %q", updated.Title)
	}
}

func TestQuestionValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := newQuizService(store)

	quiz, err := service.CreateQuiz(ctx, 1, app.QuizInput{Title: "Geography"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	cases := []struct {
		name  string
		input app.QuestionInput
	}{
		{"empty text", app.QuestionInput{QuizID: quiz.ID, Options: []string{"a", "b"}}},
		{"one option", app.QuestionInput{QuizID: quiz.ID, Text: "q", Options: []string{"a"}}},
		{"index too high", app.QuestionInput{QuizID: quiz.ID, Text: "q", Options: []string{"a", "b"}, CorrectIndex: 2}},
		{"negative index", app.QuestionInput{QuizID: quiz.ID, Text: "q", Options: []string{"a", "b"}, CorrectIndex: -1}},
	}
	for _, tc := range cases {
		if _, err := service.CreateQuestion(ctx, 1, tc.input); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	question, err := service.CreateQuestion(ctx, 1, app.QuestionInput{
		QuizID: quiz.ID, Text: "q", Options: []string{"a", "b"}, CorrectIndex: 1,
	})
	if err != nil {
		t.Fatalf("valid question: %v", err)
	}
	if _, err := service.CreateQuestion(ctx, 2, app.QuestionInput{
		QuizID: quiz.ID, Text: "q2", Options: []string{"a", "b"},
	}); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := service.UpdateQuestion(ctx, 2, question.ID, app.QuestionInput{
		QuizID: quiz.ID, Text: "q", Options: []string{"a", "b"},
	}); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("update by non-owner: expected ErrNotOwner, got %v", err)
	}
}

func TestDeleteQuizRemovesQuestionsKeepsAttempts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := newQuizService(store)

	quiz, err := service.CreateQuiz(ctx, 1, app.QuizInput{Title: "Geography"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if _, err := service.CreateQuestion(ctx, 1, app.QuestionInput{
		QuizID: quiz.ID, Text: "q", Options: []string{"a", "b"},
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}
	attempt := domain.Attempt{TakerID: 7, QuizID: quiz.ID, Score: 1, TotalQuestions: 1}
	if err := store.Attempts().Create(ctx, &attempt); err != nil {
		t.Fatalf("create attempt: %v", err)
	}

	if err := service.DeleteQuiz(ctx, 1, quiz.ID); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}

	if count, _ := store.Questions().CountByQuiz(ctx, quiz.ID); count != 0 {
		t.Fatalf("expected questions removed, got %d", count)
	}
	if _, err := store.Attempts().ByID(ctx, attempt.ID); err != nil {
		t.Fatalf("attempt should survive quiz deletion: %v", err)
	}
}

func TestQuizDetailHidesUnpublished(t *testing.T) {
	ctx := context.Background()
	service := newQuizService(memory.NewStore())

	hidden := false
	quiz, err := service.CreateQuiz(ctx, 1, app.QuizInput{Title: "Draft", IsPublished: &hidden})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	if _, err := service.QuizDetail(ctx, quiz.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound for draft, got %v", err)
	}

	published, err := service.PublishedQuizzes(ctx)
	if err != nil {
		t.Fatalf("published quizzes: %v", err)
	}
	if len(published) != 0 {
		t.Fatalf("draft must not appear in the catalog: %+v", published)
	}
}

func TestQuizListsCarryQuestionCounts(t *testing.T) {
	ctx := context.Background()
	service := newQuizService(memory.NewStore())

	quiz, err := service.CreateQuiz(ctx, 1, app.QuizInput{Title: "Geography"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := service.CreateQuestion(ctx, 1, app.QuestionInput{
			QuizID: quiz.ID, Text: "q", Options: []string{"a", "b"}, Order: i,
		}); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}

	owned, err := service.OwnerQuizzes(ctx, 1)
	if err != nil {
		t.Fatalf("owner quizzes: %v", err)
	}
	if len(owned) != 1 || owned[0].QuestionCount != 3 {
		t.Fatalf("expected question count 3, got %+v", owned)
	}
}
