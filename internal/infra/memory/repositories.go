package memory

import (
	"context"
	"sort"
	"sync"

	"online-quiz-service/internal/domain"
)

// Store is an in-memory implementation of every repository, used for unit
// tests and for running the server without Postgres.
type Store struct {
	mu        sync.RWMutex
	accounts  map[int64]domain.Account
	quizzes   map[int64]domain.Quiz
	questions map[int64]domain.Question
	attempts  map[int64]domain.Attempt
	nextID    int64
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[int64]domain.Account),
		quizzes:   make(map[int64]domain.Quiz),
		questions: make(map[int64]domain.Question),
		attempts:  make(map[int64]domain.Attempt),
	}
}

func (s *Store) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{store: s} }

// Quizzes returns the quiz repository view of the store.
func (s *Store) Quizzes() *QuizRepository { return &QuizRepository{store: s} }

// Questions returns the question repository view of the store.
func (s *Store) Questions() *QuestionRepository { return &QuestionRepository{store: s} }

// Attempts returns the attempt repository view of the store.
func (s *Store) Attempts() *AttemptRepository { return &AttemptRepository{store: s} }

type AccountRepository struct{ store *Store }

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.accounts {
		if existing.Email == account.Email {
			return domain.ErrEmailTaken
		}
	}
	account.ID = r.store.nextIDLocked()
	r.store.accounts[account.ID] = *account
	return nil
}

func (r *AccountRepository) ByID(_ context.Context, id int64) (domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if account, ok := r.store.accounts[id]; ok {
		return account, nil
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (r *AccountRepository) ByEmail(_ context.Context, email string) (domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, account := range r.store.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

// Deactivate flips an account inactive; test helper for the login path.
func (r *AccountRepository) Deactivate(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	account, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.IsActive = false
	r.store.accounts[id] = account
	return nil
}

type QuizRepository struct{ store *Store }

func (r *QuizRepository) Create(_ context.Context, quiz *domain.Quiz) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	quiz.ID = r.store.nextIDLocked()
	r.store.quizzes[quiz.ID] = *quiz
	return nil
}

func (r *QuizRepository) Update(_ context.Context, quiz *domain.Quiz) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.quizzes[quiz.ID]; !ok {
		return domain.ErrQuizNotFound
	}
	r.store.quizzes[quiz.ID] = *quiz
	return nil
}

func (r *QuizRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(r.store.quizzes, id)
	return nil
}

func (r *QuizRepository) ByID(_ context.Context, id int64) (domain.Quiz, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if quiz, ok := r.store.quizzes[id]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) ByOwner(_ context.Context, ownerID int64) ([]domain.Quiz, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Quiz
	for _, quiz := range r.store.quizzes {
		if quiz.OwnerID == ownerID {
			out = append(out, quiz)
		}
	}
	sortQuizzes(out)
	return out, nil
}

func (r *QuizRepository) Published(_ context.Context) ([]domain.Quiz, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Quiz
	for _, quiz := range r.store.quizzes {
		if quiz.IsPublished {
			out = append(out, quiz)
		}
	}
	sortQuizzes(out)
	return out, nil
}

type QuestionRepository struct{ store *Store }

func (r *QuestionRepository) Create(_ context.Context, question *domain.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	question.ID = r.store.nextIDLocked()
	r.store.questions[question.ID] = *question
	return nil
}

func (r *QuestionRepository) Update(_ context.Context, question *domain.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.questions[question.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	r.store.questions[question.ID] = *question
	return nil
}

func (r *QuestionRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.store.questions, id)
	return nil
}

func (r *QuestionRepository) DeleteByQuiz(_ context.Context, quizID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, question := range r.store.questions {
		if question.QuizID == quizID {
			delete(r.store.questions, id)
		}
	}
	return nil
}

func (r *QuestionRepository) ByID(_ context.Context, id int64) (domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if question, ok := r.store.questions[id]; ok {
		return question, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (r *QuestionRepository) ByQuiz(_ context.Context, quizID int64) ([]domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Question
	for _, question := range r.store.questions {
		if question.QuizID == quizID {
			out = append(out, question)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *QuestionRepository) CountByQuiz(_ context.Context, quizID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, question := range r.store.questions {
		if question.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

type AttemptRepository struct{ store *Store }

func (r *AttemptRepository) Create(_ context.Context, attempt *domain.Attempt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	attempt.ID = r.store.nextIDLocked()
	stored := *attempt
	stored.SelectedAnswers = make(map[int64]int, len(attempt.SelectedAnswers))
	for questionID, index := range attempt.SelectedAnswers {
		stored.SelectedAnswers[questionID] = index
	}
	r.store.attempts[attempt.ID] = stored
	return nil
}

func (r *AttemptRepository) ByID(_ context.Context, id int64) (domain.Attempt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if attempt, ok := r.store.attempts[id]; ok {
		return attempt, nil
	}
	return domain.Attempt{}, domain.ErrAttemptNotFound
}

func (r *AttemptRepository) ByTaker(_ context.Context, takerID int64) ([]domain.Attempt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Attempt
	for _, attempt := range r.store.attempts {
		if attempt.TakerID == takerID {
			out = append(out, attempt)
		}
	}
	sortAttempts(out)
	return out, nil
}

func (r *AttemptRepository) ByQuiz(_ context.Context, quizID int64) ([]domain.Attempt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Attempt
	for _, attempt := range r.store.attempts {
		if attempt.QuizID == quizID {
			out = append(out, attempt)
		}
	}
	sortAttempts(out)
	return out, nil
}

func sortQuizzes(quizzes []domain.Quiz) {
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
}

// newest first, matching the Postgres ordering
func sortAttempts(attempts []domain.Attempt) {
	sort.Slice(attempts, func(i, j int) bool {
		if !attempts[i].SubmittedAt.Equal(attempts[j].SubmittedAt) {
			return attempts[i].SubmittedAt.After(attempts[j].SubmittedAt)
		}
		return attempts[i].ID > attempts[j].ID
	})
}
