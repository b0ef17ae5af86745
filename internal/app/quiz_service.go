package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"online-quiz-service/internal/domain"
)

// QuizInput carries the mutable quiz fields for create and update.
type QuizInput struct {
	Title            string
	Description      string
	TimeLimitSeconds int
	IsPublished      *bool
}

// QuestionInput carries the mutable question fields for create and update.
type QuestionInput struct {
	QuizID       int64
	Text         string
	Options      []string
	CorrectIndex int
	Order        int
}

// QuizService contains the quiz and question use cases for owners and the
// published-quiz read path for takers.
type QuizService struct {
	quizzes   QuizRepository
	questions QuestionRepository
	details   QuizDetailSource
	now       func() time.Time
}

func NewQuizService(quizzes QuizRepository, questions QuestionRepository, details QuizDetailSource) *QuizService {
	return &QuizService{quizzes: quizzes, questions: questions, details: details, now: time.Now}
}

// CreateQuiz creates a quiz owned by ownerID. The owner never changes after
// this point.
func (s *QuizService) CreateQuiz(ctx context.Context, ownerID int64, input QuizInput) (domain.Quiz, error) {
	if err := validateQuizInput(input); err != nil {
		return domain.Quiz{}, err
	}
	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}
	quiz := domain.Quiz{
		Title:            input.Title,
		Description:      input.Description,
		TimeLimitSeconds: input.TimeLimitSeconds,
		OwnerID:          ownerID,
		IsPublished:      published,
		CreatedAt:        s.now(),
	}
	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	slog.Info("quiz created", "id", quiz.ID, "owner", ownerID)
	return quiz, nil
}

// UpdateQuiz updates a quiz the actor owns.
func (s *QuizService) UpdateQuiz(ctx context.Context, actorID, quizID int64, input QuizInput) (domain.Quiz, error) {
	if err := validateQuizInput(input); err != nil {
		return domain.Quiz{}, err
	}
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := RequireOwner(quiz.OwnerID, actorID); err != nil {
		return domain.Quiz{}, err
	}

	quiz.Title = input.Title
	quiz.Description = input.Description
	quiz.TimeLimitSeconds = input.TimeLimitSeconds
	if input.IsPublished != nil {
		quiz.IsPublished = *input.IsPublished
	}
	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	slog.Info("quiz updated", "id", quizID)
	return s.withCount(ctx, quiz)
}

// DeleteQuiz deletes a quiz the actor owns together with its questions.
// Attempts are kept: they are immutable history.
func (s *QuizService) DeleteQuiz(ctx context.Context, actorID, quizID int64) error {
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return err
	}
	if err := RequireOwner(quiz.OwnerID, actorID); err != nil {
		return err
	}
	if err := s.questions.DeleteByQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.quizzes.Delete(ctx, quizID); err != nil {
		return err
	}
	slog.Info("quiz deleted", "id", quizID)
	return nil
}

// OwnerQuizzes lists the quizzes created by ownerID.
func (s *QuizService) OwnerQuizzes(ctx context.Context, ownerID int64) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.ByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, quizzes)
}

// PublishedQuizzes lists the quizzes available to takers.
func (s *QuizService) PublishedQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.Published(ctx)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, quizzes)
}

// QuizDetail returns a published quiz with its ordered questions, served
// through the detail cache. Unpublished quizzes are invisible to takers.
func (s *QuizService) QuizDetail(ctx context.Context, quizID int64) (domain.QuizDetail, error) {
	detail, err := s.details.QuizDetail(ctx, quizID)
	if err != nil {
		return domain.QuizDetail{}, err
	}
	if !detail.Quiz.IsPublished {
		return domain.QuizDetail{}, domain.ErrQuizNotFound
	}
	return detail, nil
}

// CreateQuestion adds a question to a quiz the actor owns.
func (s *QuizService) CreateQuestion(ctx context.Context, actorID int64, input QuestionInput) (domain.Question, error) {
	if err := validateQuestionInput(input); err != nil {
		return domain.Question{}, err
	}
	quiz, err := s.quizzes.ByID(ctx, input.QuizID)
	if err != nil {
		return domain.Question{}, err
	}
	if err := RequireOwner(quiz.OwnerID, actorID); err != nil {
		return domain.Question{}, err
	}

	question := domain.Question{
		QuizID:       input.QuizID,
		Text:         input.Text,
		Options:      input.Options,
		CorrectIndex: input.CorrectIndex,
		Order:        input.Order,
	}
	if err := s.questions.Create(ctx, &question); err != nil {
		return domain.Question{}, err
	}
	slog.Info("question created", "id", question.ID, "quiz", input.QuizID)
	return question, nil
}

// UpdateQuestion updates a question in a quiz the actor owns.
func (s *QuizService) UpdateQuestion(ctx context.Context, actorID, questionID int64, input QuestionInput) (domain.Question, error) {
	if err := validateQuestionInput(input); err != nil {
		return domain.Question{}, err
	}
	question, err := s.questions.ByID(ctx, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	quiz, err := s.quizzes.ByID(ctx, question.QuizID)
	if err != nil {
		return domain.Question{}, err
	}
	if err := RequireOwner(quiz.OwnerID, actorID); err != nil {
		return domain.Question{}, err
	}

	question.Text = input.Text
	question.Options = input.Options
	question.CorrectIndex = input.CorrectIndex
	question.Order = input.Order
	if err := s.questions.Update(ctx, &question); err != nil {
		return domain.Question{}, err
	}
	slog.Info("question updated", "id", questionID)
	return question, nil
}

// DeleteQuestion removes a question from a quiz the actor owns.
func (s *QuizService) DeleteQuestion(ctx context.Context, actorID, questionID int64) error {
	question, err := s.questions.ByID(ctx, questionID)
	if err != nil {
		return err
	}
	quiz, err := s.quizzes.ByID(ctx, question.QuizID)
	if err != nil {
		return err
	}
	if err := RequireOwner(quiz.OwnerID, actorID); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, questionID); err != nil {
		return err
	}
	slog.Info("question deleted", "id", questionID)
	return nil
}

// QuizQuestions lists a quiz's questions in display order, correct answers
// included. Only the quiz owner may call it; takers get the stripped detail
// view instead.
func (s *QuizService) QuizQuestions(ctx context.Context, actorID, quizID int64) ([]domain.Question, error) {
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(quiz.OwnerID, actorID); err != nil {
		return nil, err
	}
	return s.questions.ByQuiz(ctx, quizID)
}

func (s *QuizService) withCount(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	count, err := s.questions.CountByQuiz(ctx, quiz.ID)
	if err != nil {
		return domain.Quiz{}, err
	}
	quiz.QuestionCount = count
	return quiz, nil
}

func (s *QuizService) withCounts(ctx context.Context, quizzes []domain.Quiz) ([]domain.Quiz, error) {
	out := make([]domain.Quiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		filled, err := s.withCount(ctx, quiz)
		if err != nil {
			return nil, err
		}
		out = append(out, filled)
	}
	return out, nil
}

func validateQuizInput(input QuizInput) error {
	if input.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
	}
	if input.TimeLimitSeconds < 0 {
		return fmt.Errorf("%w: time limit cannot be negative", domain.ErrValidation)
	}
	return nil
}

func validateQuestionInput(input QuestionInput) error {
	if input.Text == "" {
		return fmt.Errorf("%w: question text cannot be empty", domain.ErrValidation)
	}
	if len(input.Options) < 2 {
		return fmt.Errorf("%w: a question needs at least 2 options", domain.ErrValidation)
	}
	if input.CorrectIndex < 0 || input.CorrectIndex >= len(input.Options) {
		return fmt.Errorf("%w: correct answer index out of range", domain.ErrValidation)
	}
	return nil
}
