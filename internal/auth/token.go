package auth

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"online-quiz-service/internal/domain"
)

// DefaultTokenTTL is how long issued tokens stay valid unless configured.
const DefaultTokenTTL = 24 * time.Hour

// TokenCodec issues and verifies HMAC-signed bearer tokens carrying the
// caller's subject and role. It is pure and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec from the process-wide signing secret.
// A zero ttl falls back to DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

type tokenClaims struct {
	Role string `json:"role"`
	jwtlib.RegisteredClaims
}

// Issue signs a token for subject with the given role, valid from now until
// now plus the configured TTL.
func (c *TokenCodec) Issue(subject string, role domain.Role, now time.Time) (string, error) {
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token at the given instant. Every failure —
// malformed input, wrong signature, expiry, unknown role — collapses into
// domain.ErrInvalidToken so callers cannot probe which check failed.
// Signature comparison is constant-time inside the HMAC verification.
func (c *TokenCodec) Verify(token string, now time.Time) (domain.Identity, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &tokenClaims{},
		func(*jwtlib.Token) (interface{}, error) { return c.secret, nil },
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{Subject: claims.Subject, Role: role}, nil
}
