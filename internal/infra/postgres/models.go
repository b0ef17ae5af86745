package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"online-quiz-service/internal/domain"
)

type accountRow struct {
	bun.BaseModel `bun:"table:accounts"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name"`
	Email        string    `bun:"email"`
	PasswordHash string    `bun:"password_hash"`
	Role         string    `bun:"role"`
	IsActive     bool      `bun:"is_active"`
	CreatedAt    time.Time `bun:"created_at"`
}

func accountRowFrom(account domain.Account) *accountRow {
	return &accountRow{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
		IsActive:     account.IsActive,
		CreatedAt:    account.CreatedAt,
	}
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
	}
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Title            string    `bun:"title"`
	Description      string    `bun:"description"`
	TimeLimitSeconds int       `bun:"time_limit_seconds"`
	OwnerID          int64     `bun:"owner_id"`
	IsPublished      bool      `bun:"is_published"`
	CreatedAt        time.Time `bun:"created_at"`
}

func quizRowFrom(quiz domain.Quiz) *quizRow {
	return &quizRow{
		ID:               quiz.ID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		OwnerID:          quiz.OwnerID,
		IsPublished:      quiz.IsPublished,
		CreatedAt:        quiz.CreatedAt,
	}
}

func (r quizRow) toDomain() domain.Quiz {
	return domain.Quiz{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		TimeLimitSeconds: r.TimeLimitSeconds,
		OwnerID:          r.OwnerID,
		IsPublished:      r.IsPublished,
		CreatedAt:        r.CreatedAt,
	}
}

// Options are stored as a JSONB array; the column round-trips through a
// string so bun never guesses at the encoding.
type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID           int64  `bun:"id,pk,autoincrement"`
	QuizID       int64  `bun:"quiz_id"`
	Text         string `bun:"text"`
	Options      string `bun:"options"`
	CorrectIndex int    `bun:"correct_index"`
	Order        int    `bun:"display_order"`
}

func questionRowFrom(question domain.Question) (*questionRow, error) {
	options, err := json.Marshal(question.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	return &questionRow{
		ID:           question.ID,
		QuizID:       question.QuizID,
		Text:         question.Text,
		Options:      string(options),
		CorrectIndex: question.CorrectIndex,
		Order:        question.Order,
	}, nil
}

func (r questionRow) toDomain() (domain.Question, error) {
	var options []string
	if err := json.Unmarshal([]byte(r.Options), &options); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return domain.Question{
		ID:           r.ID,
		QuizID:       r.QuizID,
		Text:         r.Text,
		Options:      options,
		CorrectIndex: r.CorrectIndex,
		Order:        r.Order,
	}, nil
}

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	ID               int64     `bun:"id,pk,autoincrement"`
	TakerID          int64     `bun:"taker_id"`
	QuizID           int64     `bun:"quiz_id"`
	Score            int       `bun:"score"`
	TotalQuestions   int       `bun:"total_questions"`
	SelectedAnswers  string    `bun:"selected_answers"`
	TimeSpentSeconds int       `bun:"time_spent_seconds"`
	SubmittedAt      time.Time `bun:"submitted_at"`
}

func attemptRowFrom(attempt domain.Attempt) (*attemptRow, error) {
	answers, err := json.Marshal(attempt.SelectedAnswers)
	if err != nil {
		return nil, fmt.Errorf("marshal selected answers: %w", err)
	}
	return &attemptRow{
		ID:               attempt.ID,
		TakerID:          attempt.TakerID,
		QuizID:           attempt.QuizID,
		Score:            attempt.Score,
		TotalQuestions:   attempt.TotalQuestions,
		SelectedAnswers:  string(answers),
		TimeSpentSeconds: attempt.TimeSpentSeconds,
		SubmittedAt:      attempt.SubmittedAt,
	}, nil
}

func (r attemptRow) toDomain() (domain.Attempt, error) {
	answers := make(map[int64]int)
	if err := json.Unmarshal([]byte(r.SelectedAnswers), &answers); err != nil {
		return domain.Attempt{}, fmt.Errorf("unmarshal selected answers: %w", err)
	}
	return domain.Attempt{
		ID:               r.ID,
		TakerID:          r.TakerID,
		QuizID:           r.QuizID,
		Score:            r.Score,
		TotalQuestions:   r.TotalQuestions,
		SelectedAnswers:  answers,
		TimeSpentSeconds: r.TimeSpentSeconds,
		SubmittedAt:      r.SubmittedAt,
	}, nil
}
