package auth

import (
	"strings"

	"online-quiz-service/internal/domain"
)

// Decision is the outcome of a route authorization check.
type Decision int

const (
	// Allow lets the request through to its handler.
	Allow Decision = iota
	// Unauthorized means authentication was required but absent.
	Unauthorized
	// Forbidden means the caller is authenticated but has the wrong role.
	Forbidden
)

// Access describes who may call a route. The zero value means any
// authenticated caller.
type Access struct {
	Public bool
	Roles  []domain.Role
}

// Rule binds a method and path pattern to an access requirement. A pattern
// is either an exact path or a prefix ending in "/**". An empty method
// matches every method.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
}

// Policy is an ordered, read-only route/role table consulted before any
// handler runs. It is built once at startup and needs no synchronization.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from explicit rules. Routes matching no rule
// require an authenticated caller of any role.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy is the route table of the service.
func DefaultPolicy() *Policy {
	return NewPolicy([]Rule{
		{Pattern: "/admin/**", Access: Access{Roles: []domain.Role{domain.RoleOwner}}},
		{Method: "GET", Pattern: "/quizzes", Access: Access{Roles: []domain.Role{domain.RoleTaker}}},
		{Method: "GET", Pattern: "/quiz/**", Access: Access{Roles: []domain.Role{domain.RoleTaker}}},
		{Method: "POST", Pattern: "/quiz/submit", Access: Access{Roles: []domain.Role{domain.RoleTaker}}},
		{Method: "GET", Pattern: "/user/**", Access: Access{Roles: []domain.Role{domain.RoleTaker}}},
		{Method: "GET", Pattern: "/attempt/**", Access: Access{Roles: []domain.Role{domain.RoleTaker}}},
		{Pattern: "/auth/**", Access: Access{Public: true}},
		{Method: "GET", Pattern: "/healthz", Access: Access{Public: true}},
	})
}

// Decide evaluates the table for one request. identity is nil for anonymous
// callers. The most specific matching pattern wins; an exact pattern beats a
// prefix pattern of the same length. Pure function, no I/O.
func (p *Policy) Decide(method, path string, identity *domain.Identity) Decision {
	access := Access{} // secure default: any authenticated caller
	best := -1
	for _, rule := range p.rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		score, ok := matchPattern(rule.Pattern, path)
		if !ok || score <= best {
			continue
		}
		best = score
		access = rule.Access
	}

	switch {
	case access.Public:
		return Allow
	case identity == nil:
		return Unauthorized
	case len(access.Roles) == 0:
		return Allow
	}
	for _, role := range access.Roles {
		if identity.Role == role {
			return Allow
		}
	}
	return Forbidden
}

// matchPattern reports whether path matches pattern, and how specific the
// match is. Exact patterns score one above an equally long prefix pattern.
func matchPattern(pattern, path string) (int, bool) {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return 2 * len(prefix), true
		}
		return 0, false
	}
	if path == pattern {
		return 2*len(pattern) + 1, true
	}
	return 0, false
}
