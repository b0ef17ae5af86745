package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"online-quiz-service/internal/app"
)

// LiveResultsHandler streams new attempts for a quiz to its owner over a
// websocket. The ownership check runs before the upgrade, so a non-owner
// never gets a socket.
type LiveResultsHandler struct {
	auth     *app.AuthService
	attempts *app.AttemptService
	upgrader websocket.Upgrader
}

func NewLiveResultsHandler(authService *app.AuthService, attempts *app.AttemptService) *LiveResultsHandler {
	return &LiveResultsHandler{
		auth:     authService,
		attempts: attempts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS upgrades the request and streams a results snapshot followed by
// every attempt submitted while the socket stays open.
func (h *LiveResultsHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auth)
	if err != nil {
		writeError(w, err)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	snapshot, err := h.attempts.QuizResults(r.Context(), actor.ID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.attempts.Subscribe(quizID)
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// A single writer goroutine owns the connection's write side.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("ws write error", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: "attempt", Payload: toAttemptResponse(view)}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage{Type: "results", Payload: toAttemptResponses(snapshot)}

	// The read loop only watches for the peer closing the socket; owners
	// send nothing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
