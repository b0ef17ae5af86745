package app

import (
	"context"

	"online-quiz-service/internal/domain"
)

// AccountRepository persists accounts. Create must return
// domain.ErrEmailTaken when the email is already registered.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	ByID(ctx context.Context, id int64) (domain.Account, error)
	ByEmail(ctx context.Context, email string) (domain.Account, error)
}

// QuizRepository persists quizzes.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	Update(ctx context.Context, quiz *domain.Quiz) error
	Delete(ctx context.Context, id int64) error
	ByID(ctx context.Context, id int64) (domain.Quiz, error)
	ByOwner(ctx context.Context, ownerID int64) ([]domain.Quiz, error)
	Published(ctx context.Context) ([]domain.Quiz, error)
}

// QuestionRepository persists questions. ByQuiz returns questions ordered by
// their display order.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, id int64) error
	DeleteByQuiz(ctx context.Context, quizID int64) error
	ByID(ctx context.Context, id int64) (domain.Question, error)
	ByQuiz(ctx context.Context, quizID int64) ([]domain.Question, error)
	CountByQuiz(ctx context.Context, quizID int64) (int, error)
}

// AttemptRepository persists attempts. Attempts are write-once: there is no
// update or delete. Listings return newest first.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *domain.Attempt) error
	ByID(ctx context.Context, id int64) (domain.Attempt, error)
	ByTaker(ctx context.Context, takerID int64) ([]domain.Attempt, error)
	ByQuiz(ctx context.Context, quizID int64) ([]domain.Attempt, error)
}

// QuizDetailSource loads a quiz together with its ordered questions. The
// production wiring layers a cache (memory or Redis) over a storage-backed
// loader.
type QuizDetailSource interface {
	QuizDetail(ctx context.Context, quizID int64) (domain.QuizDetail, error)
}

// RepositoryDetailSource composes a QuizDetailSource from the repositories.
// Used as the cache fallback in memory mode and in tests.
type RepositoryDetailSource struct {
	quizzes   QuizRepository
	questions QuestionRepository
}

func NewRepositoryDetailSource(quizzes QuizRepository, questions QuestionRepository) *RepositoryDetailSource {
	return &RepositoryDetailSource{quizzes: quizzes, questions: questions}
}

func (s *RepositoryDetailSource) QuizDetail(ctx context.Context, quizID int64) (domain.QuizDetail, error) {
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return domain.QuizDetail{}, err
	}
	questions, err := s.questions.ByQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizDetail{}, err
	}
	quiz.QuestionCount = len(questions)
	return domain.QuizDetail{Quiz: quiz, Questions: questions}, nil
}
