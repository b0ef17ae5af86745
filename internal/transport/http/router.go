package http

import (
	"net/http"

	"online-quiz-service/internal/auth"
	"online-quiz-service/internal/domain"
)

// NewRouter assembles the middleware chain and route table. Requests pass
// the authentication gate first, then the route policy, then the mux.
func NewRouter(handler *Handler, live *LiveResultsHandler, codec *auth.TokenCodec, policy *auth.Policy) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("POST /auth/register", handler.Register)
	mux.HandleFunc("POST /auth/login", handler.Login)

	mux.HandleFunc("GET /quizzes", handler.PublishedQuizzes)
	mux.HandleFunc("GET /quiz/{id}", handler.QuizDetail)
	mux.HandleFunc("POST /quiz/submit", handler.Submit)
	mux.HandleFunc("GET /user/history", handler.History)
	mux.HandleFunc("GET /attempt/{id}", handler.Attempt)

	mux.HandleFunc("POST /admin/quiz", handler.CreateQuiz)
	mux.HandleFunc("GET /admin/quiz", handler.OwnerQuizzes)
	mux.HandleFunc("PUT /admin/quiz/{id}", handler.UpdateQuiz)
	mux.HandleFunc("DELETE /admin/quiz/{id}", handler.DeleteQuiz)
	mux.HandleFunc("GET /admin/quiz/{id}/questions", handler.QuizQuestions)
	mux.HandleFunc("GET /admin/quiz/{id}/results", handler.QuizResults)
	mux.HandleFunc("GET /admin/quiz/{id}/results/live", live.ServeWS)
	mux.HandleFunc("POST /admin/question", handler.CreateQuestion)
	mux.HandleFunc("PUT /admin/question/{id}", handler.UpdateQuestion)
	mux.HandleFunc("DELETE /admin/question/{id}", handler.DeleteQuestion)

	chain := policyMiddleware(policy)(mux)
	chain = auth.Middleware(codec)(chain)
	return chain
}

// policyMiddleware enforces the route table. It rejects before routing, so
// even unrouted paths answer 401 to anonymous callers.
func policyMiddleware(policy *auth.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity *domain.Identity
			if id, ok := auth.IdentityFromContext(r.Context()); ok {
				identity = &id
			}
			switch policy.Decide(r.Method, r.URL.Path, identity) {
			case auth.Unauthorized:
				writeErrorBody(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
			case auth.Forbidden:
				writeErrorBody(w, http.StatusForbidden, codeForbidden, "insufficient role")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
