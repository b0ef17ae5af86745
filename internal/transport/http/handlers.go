package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/auth"
	"online-quiz-service/internal/domain"
)

// Handler carries the HTTP endpoints. Route-level access control happens in
// the policy middleware before any of these run; handlers only add the
// resource-level checks (ownership, account resolution).
type Handler struct {
	auth     *app.AuthService
	quizzes  *app.QuizService
	attempts *app.AttemptService
}

func NewHandler(authService *app.AuthService, quizzes *app.QuizService, attempts *app.AttemptService) *Handler {
	return &Handler{auth: authService, quizzes: quizzes, attempts: attempts}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	account, token, err := h.auth.Register(r.Context(), app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: account})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	account, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: account})
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req quizRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.quizzes.CreateQuiz(r.Context(), actor.ID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req quizRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.quizzes.UpdateQuiz(r.Context(), actor.ID, quizID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.quizzes.DeleteQuiz(r.Context(), actor.ID, quizID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) OwnerQuizzes(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizzes, err := h.quizzes.OwnerQuizzes(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) QuizQuestions(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	questions, err := h.quizzes.QuizQuestions(r.Context(), actor.ID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req questionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	question, err := h.quizzes.CreateQuestion(r.Context(), actor.ID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	questionID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req questionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	question, err := h.quizzes.UpdateQuestion(r.Context(), actor.ID, questionID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	questionID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.quizzes.DeleteQuestion(r.Context(), actor.ID, questionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) QuizResults(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := h.attempts.QuizResults(r.Context(), actor.ID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttemptResponses(views))
}

func (h *Handler) PublishedQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.PublishedQuizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) QuizDetail(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := h.quizzes.QuizDetail(r.Context(), quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuizDetailResponse(detail))
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req submitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	submission, err := req.toSubmission()
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.attempts.Submit(r.Context(), actor.ID, submission)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttemptResponse(view))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := h.attempts.History(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttemptResponses(views))
}

func (h *Handler) Attempt(w http.ResponseWriter, r *http.Request) {
	attemptID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.attempts.Attempt(r.Context(), attemptID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttemptResponse(view))
}

func (h *Handler) actor(r *http.Request) (domain.Account, error) {
	return resolveActor(r, h.auth)
}

// resolveActor maps the verified identity to its stored account. A valid
// token whose account has since disappeared reads as an invalid token.
func resolveActor(r *http.Request, authService *app.AuthService) (domain.Account, error) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return domain.Account{}, domain.ErrInvalidToken
	}
	account, err := authService.AccountBySubject(r.Context(), identity.Subject)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.Account{}, domain.ErrInvalidToken
	}
	return account, err
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a numeric id", domain.ErrValidation, name)
	}
	return id, nil
}
