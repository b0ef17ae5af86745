package http

import (
	"fmt"
	"strconv"
	"time"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/domain"
)

var errBadAnswerKey = fmt.Errorf("%w: selectedAnswers keys must be numeric question ids", domain.ErrValidation)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  domain.Account `json:"user"`
}

type quizRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	TimeLimitSeconds int    `json:"timeLimit"`
	IsPublished      *bool  `json:"isPublished"`
}

func (r quizRequest) toInput() app.QuizInput {
	return app.QuizInput{
		Title:            r.Title,
		Description:      r.Description,
		TimeLimitSeconds: r.TimeLimitSeconds,
		IsPublished:      r.IsPublished,
	}
}

type questionRequest struct {
	QuizID       int64    `json:"quizId"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Order        int      `json:"order"`
}

func (r questionRequest) toInput() app.QuestionInput {
	return app.QuestionInput{
		QuizID:       r.QuizID,
		Text:         r.Text,
		Options:      r.Options,
		CorrectIndex: r.CorrectIndex,
		Order:        r.Order,
	}
}

// takerQuestion is a question as shown to a quiz taker. The correct answer
// never appears here.
type takerQuestion struct {
	ID      int64    `json:"id"`
	QuizID  int64    `json:"quizId"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Order   int      `json:"order"`
}

type quizDetailResponse struct {
	domain.Quiz
	Questions []takerQuestion `json:"questions"`
}

func toQuizDetailResponse(detail domain.QuizDetail) quizDetailResponse {
	questions := make([]takerQuestion, 0, len(detail.Questions))
	for _, question := range detail.Questions {
		questions = append(questions, takerQuestion{
			ID:      question.ID,
			QuizID:  question.QuizID,
			Text:    question.Text,
			Options: question.Options,
			Order:   question.Order,
		})
	}
	return quizDetailResponse{Quiz: detail.Quiz, Questions: questions}
}

// submitRequest carries answers keyed by question id. Any score field a
// client includes is ignored by construction: there is nowhere to put one.
type submitRequest struct {
	QuizID           int64          `json:"quizId"`
	SelectedAnswers  map[string]int `json:"selectedAnswers"`
	TimeSpentSeconds int            `json:"timeSpent"`
}

func (r submitRequest) toSubmission() (app.Submission, error) {
	answers := make(map[int64]int, len(r.SelectedAnswers))
	for key, index := range r.SelectedAnswers {
		questionID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return app.Submission{}, errBadAnswerKey
		}
		answers[questionID] = index
	}
	return app.Submission{
		QuizID:           r.QuizID,
		SelectedAnswers:  answers,
		TimeSpentSeconds: r.TimeSpentSeconds,
	}, nil
}

type attemptResponse struct {
	ID               int64          `json:"id"`
	TakerID          int64          `json:"takerId"`
	QuizID           int64          `json:"quizId"`
	QuizTitle        string         `json:"quizTitle"`
	Score            int            `json:"score"`
	TotalQuestions   int            `json:"totalQuestions"`
	Percentage       float64        `json:"percentage"`
	SelectedAnswers  map[string]int `json:"selectedAnswers"`
	TimeSpentSeconds int            `json:"timeSpent"`
	SubmittedAt      time.Time      `json:"submittedAt"`
}

func toAttemptResponse(view app.AttemptView) attemptResponse {
	answers := make(map[string]int, len(view.SelectedAnswers))
	for questionID, index := range view.SelectedAnswers {
		answers[strconv.FormatInt(questionID, 10)] = index
	}
	return attemptResponse{
		ID:               view.ID,
		TakerID:          view.TakerID,
		QuizID:           view.QuizID,
		QuizTitle:        view.QuizTitle,
		Score:            view.Score,
		TotalQuestions:   view.TotalQuestions,
		Percentage:       view.Percentage(),
		SelectedAnswers:  answers,
		TimeSpentSeconds: view.TimeSpentSeconds,
		SubmittedAt:      view.SubmittedAt,
	}
}

func toAttemptResponses(views []app.AttemptView) []attemptResponse {
	out := make([]attemptResponse, 0, len(views))
	for _, view := range views {
		out = append(out, toAttemptResponse(view))
	}
	return out
}
