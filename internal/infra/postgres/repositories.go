package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"online-quiz-service/internal/domain"
)

// AccountRepository stores accounts in Postgres via bun.
type AccountRepository struct {
	db *bun.DB
}

func NewAccountRepository(db *bun.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	row := accountRowFrom(*account)
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	account.ID = row.ID
	return nil
}

func (r *AccountRepository) ByID(ctx context.Context, id int64) (domain.Account, error) {
	var row accountRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("select account: %w", err)
	}
	return row.toDomain(), nil
}

func (r *AccountRepository) ByEmail(ctx context.Context, email string) (domain.Account, error) {
	var row accountRow
	err := r.db.NewSelect().Model(&row).Where("email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("select account by email: %w", err)
	}
	return row.toDomain(), nil
}

// QuizRepository stores quizzes in Postgres via bun.
type QuizRepository struct {
	db *bun.DB
}

func NewQuizRepository(db *bun.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	row := quizRowFrom(*quiz)
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	quiz.ID = row.ID
	return nil
}

func (r *QuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	row := quizRowFrom(*quiz)
	res, err := r.db.NewUpdate().Model(row).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	return requireAffected(res, domain.ErrQuizNotFound)
}

func (r *QuizRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*quizRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return requireAffected(res, domain.ErrQuizNotFound)
}

func (r *QuizRepository) ByID(ctx context.Context, id int64) (domain.Quiz, error) {
	var row quizRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("select quiz: %w", err)
	}
	return row.toDomain(), nil
}

func (r *QuizRepository) ByOwner(ctx context.Context, ownerID int64) ([]domain.Quiz, error) {
	var rows []quizRow
	err := r.db.NewSelect().Model(&rows).Where("owner_id = ?", ownerID).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select quizzes by owner: %w", err)
	}
	return quizzesToDomain(rows), nil
}

func (r *QuizRepository) Published(ctx context.Context) ([]domain.Quiz, error) {
	var rows []quizRow
	err := r.db.NewSelect().Model(&rows).Where("is_published").Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select published quizzes: %w", err)
	}
	return quizzesToDomain(rows), nil
}

// QuestionRepository stores questions in Postgres via bun.
type QuestionRepository struct {
	db *bun.DB
}

func NewQuestionRepository(db *bun.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	row, err := questionRowFrom(*question)
	if err != nil {
		return err
	}
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	question.ID = row.ID
	return nil
}

func (r *QuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	row, err := questionRowFrom(*question)
	if err != nil {
		return err
	}
	res, err := r.db.NewUpdate().Model(row).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireAffected(res, domain.ErrQuestionNotFound)
}

func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*questionRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireAffected(res, domain.ErrQuestionNotFound)
}

func (r *QuestionRepository) DeleteByQuiz(ctx context.Context, quizID int64) error {
	_, err := r.db.NewDelete().Model((*questionRow)(nil)).Where("quiz_id = ?", quizID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete questions by quiz: %w", err)
	}
	return nil
}

func (r *QuestionRepository) ByID(ctx context.Context, id int64) (domain.Question, error) {
	var row questionRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("select question: %w", err)
	}
	return row.toDomain()
}

func (r *QuestionRepository) ByQuiz(ctx context.Context, quizID int64) ([]domain.Question, error) {
	var rows []questionRow
	err := r.db.NewSelect().Model(&rows).
		Where("quiz_id = ?", quizID).
		Order("display_order ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select questions by quiz: %w", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		question, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (r *QuestionRepository) CountByQuiz(ctx context.Context, quizID int64) (int, error) {
	count, err := r.db.NewSelect().Model((*questionRow)(nil)).Where("quiz_id = ?", quizID).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// AttemptRepository stores attempts in Postgres via bun. Attempts are
// insert-only.
type AttemptRepository struct {
	db *bun.DB
}

func NewAttemptRepository(db *bun.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *domain.Attempt) error {
	row, err := attemptRowFrom(*attempt)
	if err != nil {
		return err
	}
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	attempt.ID = row.ID
	return nil
}

func (r *AttemptRepository) ByID(ctx context.Context, id int64) (domain.Attempt, error) {
	var row attemptRow
	err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("select attempt: %w", err)
	}
	return row.toDomain()
}

func (r *AttemptRepository) ByTaker(ctx context.Context, takerID int64) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := r.db.NewSelect().Model(&rows).
		Where("taker_id = ?", takerID).
		Order("submitted_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select attempts by taker: %w", err)
	}
	return attemptsToDomain(rows)
}

func (r *AttemptRepository) ByQuiz(ctx context.Context, quizID int64) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := r.db.NewSelect().Model(&rows).
		Where("quiz_id = ?", quizID).
		Order("submitted_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select attempts by quiz: %w", err)
	}
	return attemptsToDomain(rows)
}

func quizzesToDomain(rows []quizRow) []domain.Quiz {
	quizzes := make([]domain.Quiz, 0, len(rows))
	for _, row := range rows {
		quizzes = append(quizzes, row.toDomain())
	}
	return quizzes
}

func attemptsToDomain(rows []attemptRow) ([]domain.Attempt, error) {
	attempts := make([]domain.Attempt, 0, len(rows))
	for _, row := range rows {
		attempt, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
