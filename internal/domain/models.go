package domain

import (
	"fmt"
	"time"
)

// Role partitions accounts into quiz owners and quiz takers.
type Role string

const (
	// RoleOwner may create and manage quizzes and view their results.
	RoleOwner Role = "OWNER"
	// RoleTaker may browse published quizzes and submit attempts.
	RoleTaker Role = "TAKER"
)

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleTaker:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Identity is the verified caller of a request. It is produced only by
// token verification and lives for exactly one request.
type Identity struct {
	Subject string
	Role    Role
}

// Account is a registered user. The role never changes after registration.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Quiz is a collection of questions owned by a single account.
// OwnerID is set at creation and anchors every ownership check.
type Quiz struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	TimeLimitSeconds int       `json:"timeLimit"`
	OwnerID          int64     `json:"ownerId"`
	IsPublished      bool      `json:"isPublished"`
	QuestionCount    int       `json:"questionCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Question is a single-answer MCQ. CorrectIndex is a 0-based index into
// Options; 0 <= CorrectIndex < len(Options) always holds for stored rows.
type Question struct {
	ID           int64    `json:"id"`
	QuizID       int64    `json:"quizId"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Order        int      `json:"order"`
}

// QuizDetail bundles a quiz with its ordered questions, as served to takers
// and cached by the detail cache.
type QuizDetail struct {
	Quiz      Quiz       `json:"quiz"`
	Questions []Question `json:"questions"`
}

// Attempt is an immutable record of one scored submission. TotalQuestions is
// the size of the question snapshot at scoring time; later edits to the quiz
// never change it.
type Attempt struct {
	ID               int64         `json:"id"`
	TakerID          int64         `json:"takerId"`
	QuizID           int64         `json:"quizId"`
	Score            int           `json:"score"`
	TotalQuestions   int           `json:"totalQuestions"`
	SelectedAnswers  map[int64]int `json:"selectedAnswers"`
	TimeSpentSeconds int           `json:"timeSpent"`
	SubmittedAt      time.Time     `json:"submittedAt"`
}

// Percentage returns the attempt score as 0-100. An empty quiz scores 0.
func (a Attempt) Percentage() float64 {
	if a.TotalQuestions == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalQuestions) * 100
}
