package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestLiveResultsFeed(t *testing.T) {
	server := newTestServer(t)
	owner := register(t, server.URL, "Olga", "olga@example.com", "OWNER")
	taker := register(t, server.URL, "Tom", "tom@example.com", "TAKER")

	quizID := createQuiz(t, server.URL, owner, "Geography")
	q1 := createQuestion(t, server.URL, owner, quizID, "Q1", 0)

	url := fmt.Sprintf("ws%s/admin/quiz/%d/results/live", server.URL[len("http"):], quizID)
	header := http.Header{"Authorization": {"Bearer " + owner}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Snapshot arrives first, empty since nobody has submitted.
	msgType, payload := readNext(t, conn)
	if msgType != "results" {
		t.Fatalf("expected results, got %s", msgType)
	}
	var snapshot []attemptResponse
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot, got %d attempts", len(snapshot))
	}

	resp, raw := doJSON(t, http.MethodPost, server.URL+"/quiz/submit", taker, map[string]any{
		"quizId":          quizID,
		"selectedAnswers": map[string]int{fmt.Sprint(q1): 0},
		"timeSpent":       30,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: status %d, body %s", resp.StatusCode, raw)
	}

	msgType, payload = readNext(t, conn)
	if msgType != "attempt" {
		t.Fatalf("expected attempt, got %s", msgType)
	}
	var attempt attemptResponse
	if err := json.Unmarshal(payload, &attempt); err != nil {
		t.Fatalf("unmarshal attempt: %v", err)
	}
	if attempt.Score != 1 || attempt.TotalQuestions != 1 {
		t.Fatalf("expected 1/1, got %d/%d", attempt.Score, attempt.TotalQuestions)
	}
}

func TestLiveResultsRequiresOwnership(t *testing.T) {
	server := newTestServer(t)
	owner := register(t, server.URL, "Olga", "olga@example.com", "OWNER")
	rival := register(t, server.URL, "Rita", "rita@example.com", "OWNER")

	quizID := createQuiz(t, server.URL, owner, "Geography")

	url := fmt.Sprintf("ws%s/admin/quiz/%d/results/live", server.URL[len("http"):], quizID)
	header := http.Header{"Authorization": {"Bearer " + rival}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected dial to fail for a non-owner")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 before upgrade, got %+v", resp)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}
