package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"online-quiz-service/internal/domain"
)

// ErrorResponse is the single error body shape for every endpoint.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Code      string    `json:"code"`
}

const (
	codeBadRequest   = "BAD_REQUEST"
	codeUnauthorized = "UNAUTHORIZED"
	codeInvalidToken = "INVALID_TOKEN"
	codeForbidden    = "FORBIDDEN"
	codeNotFound     = "NOT_FOUND"
	codeConflict     = "CONFLICT"
	codeInternal     = "INTERNAL_SERVER_ERROR"
)

// writeError translates domain errors into wire errors at the one boundary
// where that happens. Anything unrecognized becomes an opaque 500; the detail
// goes to the log, never to the client.
func writeError(w http.ResponseWriter, err error) {
	status, code, message := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeErrorBody(w, status, code, message)
}

func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, codeBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, codeInvalidToken, "invalid or expired token"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, codeUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusUnauthorized, codeUnauthorized, "account is deactivated"
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusUnauthorized, codeUnauthorized, "you do not own this resource"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, codeConflict, "email is already registered"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, codeNotFound, "account not found"
	case errors.Is(err, domain.ErrQuizNotFound):
		return http.StatusNotFound, codeNotFound, "quiz not found"
	case errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound, codeNotFound, "question not found"
	case errors.Is(err, domain.ErrAttemptNotFound):
		return http.StatusNotFound, codeNotFound, "attempt not found"
	}
	return http.StatusInternalServerError, codeInternal, "internal server error"
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Code:      code,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
