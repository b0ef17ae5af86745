package auth_test

import (
	"testing"

	"online-quiz-service/internal/auth"
	"online-quiz-service/internal/domain"
)

func TestDefaultPolicyDecisions(t *testing.T) {
	policy := auth.DefaultPolicy()
	owner := &domain.Identity{Subject: "o@example.com", Role: domain.RoleOwner}
	taker := &domain.Identity{Subject: "t@example.com", Role: domain.RoleTaker}

	cases := []struct {
		name     string
		method   string
		path     string
		identity *domain.Identity
		want     auth.Decision
	}{
		{"public register", "POST", "/auth/register", nil, auth.Allow},
		{"public login", "POST", "/auth/login", nil, auth.Allow},
		{"healthz", "GET", "/healthz", nil, auth.Allow},
		{"anonymous quizzes", "GET", "/quizzes", nil, auth.Unauthorized},
		{"taker quizzes", "GET", "/quizzes", taker, auth.Allow},
		{"owner quizzes", "GET", "/quizzes", owner, auth.Forbidden},
		{"taker submit", "POST", "/quiz/submit", taker, auth.Allow},
		{"owner submit", "POST", "/quiz/submit", owner, auth.Forbidden},
		{"taker admin", "POST", "/admin/quiz", taker, auth.Forbidden},
		{"owner admin create", "POST", "/admin/quiz", owner, auth.Allow},
		{"owner admin delete", "DELETE", "/admin/quiz/3", owner, auth.Allow},
		{"anonymous admin", "GET", "/admin/quiz", nil, auth.Unauthorized},
		{"taker history", "GET", "/user/history", taker, auth.Allow},
		{"taker attempt", "GET", "/attempt/9", taker, auth.Allow},
		// Unknown routes require authentication but no particular role.
		{"anonymous unknown", "GET", "/metrics-ish", nil, auth.Unauthorized},
		{"owner unknown", "GET", "/metrics-ish", owner, auth.Allow},
		{"taker unknown", "POST", "/something", taker, auth.Allow},
	}
	for _, tc := range cases {
		if got := policy.Decide(tc.method, tc.path, tc.identity); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestPolicyMostSpecificWins(t *testing.T) {
	policy := auth.NewPolicy([]auth.Rule{
		{Pattern: "/quiz/**", Access: auth.Access{Roles: []domain.Role{domain.RoleTaker}}},
		{Pattern: "/quiz/export", Access: auth.Access{Roles: []domain.Role{domain.RoleOwner}}},
	})
	owner := &domain.Identity{Subject: "o@example.com", Role: domain.RoleOwner}

	if got := policy.Decide("GET", "/quiz/export", owner); got != auth.Allow {
		t.Fatalf("expected exact rule to win, got %v", got)
	}
	if got := policy.Decide("GET", "/quiz/7", owner); got != auth.Forbidden {
		t.Fatalf("expected prefix rule for other paths, got %v", got)
	}
}
