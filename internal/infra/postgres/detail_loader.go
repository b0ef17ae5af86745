package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"online-quiz-service/internal/domain"
)

// QuizDetailLoader serves the taker read path straight from Postgres over a
// pgx pool, bypassing bun. The detail cache sits in front of it.
type QuizDetailLoader struct {
	pool *pgxpool.Pool
}

func NewQuizDetailLoader(pool *pgxpool.Pool) *QuizDetailLoader {
	return &QuizDetailLoader{pool: pool}
}

func (l *QuizDetailLoader) QuizDetail(ctx context.Context, quizID int64) (domain.QuizDetail, error) {
	var quiz domain.Quiz
	err := l.pool.QueryRow(ctx,
		`SELECT id, title, description, time_limit_seconds, owner_id, is_published, created_at
		 FROM quizzes WHERE id=$1`, quizID).
		Scan(&quiz.ID, &quiz.Title, &quiz.Description, &quiz.TimeLimitSeconds,
			&quiz.OwnerID, &quiz.IsPublished, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizDetail{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizDetail{}, fmt.Errorf("load quiz: %w", err)
	}

	rows, err := l.pool.Query(ctx,
		`SELECT id, quiz_id, text, options, correct_index, display_order
		 FROM questions WHERE quiz_id=$1 ORDER BY display_order, id`, quizID)
	if err != nil {
		return domain.QuizDetail{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var question domain.Question
		var options []byte
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Text,
			&options, &question.CorrectIndex, &question.Order); err != nil {
			return domain.QuizDetail{}, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &question.Options); err != nil {
			return domain.QuizDetail{}, fmt.Errorf("unmarshal options: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return domain.QuizDetail{}, fmt.Errorf("iterate questions: %w", err)
	}

	quiz.QuestionCount = len(questions)
	return domain.QuizDetail{Quiz: quiz, Questions: questions}, nil
}
