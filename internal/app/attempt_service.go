package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"online-quiz-service/internal/domain"
)

// Submission is the raw scoring request: what the taker claims to have
// answered. Any score a client might also send never reaches this type.
type Submission struct {
	QuizID           int64
	SelectedAnswers  map[int64]int
	TimeSpentSeconds int
}

// AttemptView pairs an attempt with its quiz title for display.
type AttemptView struct {
	domain.Attempt
	QuizTitle string
}

// AttemptService scores submissions against the stored correct answers and
// keeps an in-process feed of new attempts per quiz for live result viewers.
type AttemptService struct {
	attempts  AttemptRepository
	quizzes   QuizRepository
	questions QuestionRepository
	accounts  AccountRepository
	now       func() time.Time

	mu          sync.RWMutex
	subscribers map[int64]map[chan AttemptView]struct{}
}

func NewAttemptService(attempts AttemptRepository, quizzes QuizRepository, questions QuestionRepository, accounts AccountRepository) *AttemptService {
	return &AttemptService{
		attempts:    attempts,
		quizzes:     quizzes,
		questions:   questions,
		accounts:    accounts,
		now:         time.Now,
		subscribers: make(map[int64]map[chan AttemptView]struct{}),
	}
}

// Submit recomputes the score server-side and persists an immutable attempt.
//
// The question set is read once from the repository at scoring time; the
// persisted TotalQuestions is the size of that snapshot, so later question
// edits never change a historical attempt. Answers for question ids outside
// the snapshot, and snapshot questions the taker skipped, are silently
// ignored. Identical resubmissions each create a new independent attempt.
func (s *AttemptService) Submit(ctx context.Context, takerID int64, submission Submission) (AttemptView, error) {
	if _, err := s.accounts.ByID(ctx, takerID); err != nil {
		return AttemptView{}, err
	}
	quiz, err := s.quizzes.ByID(ctx, submission.QuizID)
	if err != nil {
		return AttemptView{}, err
	}
	snapshot, err := s.questions.ByQuiz(ctx, submission.QuizID)
	if err != nil {
		return AttemptView{}, err
	}

	score := 0
	for _, question := range snapshot {
		if selected, ok := submission.SelectedAnswers[question.ID]; ok && selected == question.CorrectIndex {
			score++
		}
	}

	answers := make(map[int64]int, len(submission.SelectedAnswers))
	for questionID, index := range submission.SelectedAnswers {
		answers[questionID] = index
	}

	attempt := domain.Attempt{
		TakerID:          takerID,
		QuizID:           quiz.ID,
		Score:            score,
		TotalQuestions:   len(snapshot),
		SelectedAnswers:  answers,
		TimeSpentSeconds: submission.TimeSpentSeconds,
		SubmittedAt:      s.now(),
	}
	if err := s.attempts.Create(ctx, &attempt); err != nil {
		return AttemptView{}, err
	}
	slog.Info("quiz submitted",
		"taker", takerID,
		"quiz", quiz.ID,
		"score", score,
		"total", len(snapshot),
	)

	view := AttemptView{Attempt: attempt, QuizTitle: quiz.Title}
	s.broadcast(quiz.ID, view)
	return view, nil
}

// History lists the taker's attempts, newest first.
func (s *AttemptService) History(ctx context.Context, takerID int64) ([]AttemptView, error) {
	if _, err := s.accounts.ByID(ctx, takerID); err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ByTaker(ctx, takerID)
	if err != nil {
		return nil, err
	}
	return s.withTitles(ctx, attempts)
}

// QuizResults lists every attempt for a quiz the actor owns, newest first.
func (s *AttemptService) QuizResults(ctx context.Context, actorID, quizID int64) ([]AttemptView, error) {
	quiz, err := s.quizzes.ByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(quiz.OwnerID, actorID); err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	views := make([]AttemptView, 0, len(attempts))
	for _, attempt := range attempts {
		views = append(views, AttemptView{Attempt: attempt, QuizTitle: quiz.Title})
	}
	return views, nil
}

// Attempt returns one attempt by id.
func (s *AttemptService) Attempt(ctx context.Context, attemptID int64) (AttemptView, error) {
	attempt, err := s.attempts.ByID(ctx, attemptID)
	if err != nil {
		return AttemptView{}, err
	}
	views, err := s.withTitles(ctx, []domain.Attempt{attempt})
	if err != nil {
		return AttemptView{}, err
	}
	return views[0], nil
}

// Subscribe returns a channel receiving attempts persisted for quizID after
// the call. The cancel function must be invoked to release the subscription.
func (s *AttemptService) Subscribe(quizID int64) (<-chan AttemptView, func()) {
	ch := make(chan AttemptView, 8)

	s.mu.Lock()
	if s.subscribers[quizID] == nil {
		s.subscribers[quizID] = make(map[chan AttemptView]struct{})
	}
	s.subscribers[quizID][ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if set, ok := s.subscribers[quizID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(s.subscribers, quizID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *AttemptService) broadcast(quizID int64, view AttemptView) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers[quizID] {
		select {
		case ch <- view:
		default:
			// Drop the oldest pending update so a slow viewer cannot
			// block submissions.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}

func (s *AttemptService) withTitles(ctx context.Context, attempts []domain.Attempt) ([]AttemptView, error) {
	titles := make(map[int64]string)
	views := make([]AttemptView, 0, len(attempts))
	for _, attempt := range attempts {
		title, ok := titles[attempt.QuizID]
		if !ok {
			quiz, err := s.quizzes.ByID(ctx, attempt.QuizID)
			switch {
			case err == nil:
				title = quiz.Title
			default:
				// The quiz may have been deleted since; the attempt
				// itself is still valid history.
				title = ""
			}
			titles[attempt.QuizID] = title
		}
		views = append(views, AttemptView{Attempt: attempt, QuizTitle: title})
	}
	return views, nil
}
