package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"online-quiz-service/internal/auth"
	"online-quiz-service/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@.+$`)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthService implements registration and login and issues bearer tokens.
type AuthService struct {
	accounts AccountRepository
	codec    *auth.TokenCodec
	now      func() time.Time
}

func NewAuthService(accounts AccountRepository, codec *auth.TokenCodec) *AuthService {
	return &AuthService{accounts: accounts, codec: codec, now: time.Now}
}

// Register creates an active account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.Account, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return domain.Account{}, "", fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if !emailPattern.MatchString(input.Email) {
		return domain.Account{}, "", fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	if len(input.Password) < 6 {
		return domain.Account{}, "", fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}
	role, err := domain.ParseRole(strings.ToUpper(strings.TrimSpace(input.Role)))
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("%w: role must be OWNER or TAKER", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.accounts.Create(ctx, &account); err != nil {
		return domain.Account{}, "", err
	}

	token, err := s.codec.Issue(account.Email, account.Role, s.now())
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("issue token: %w", err)
	}
	slog.Info("account registered", "id", account.ID, "email", account.Email, "role", account.Role)
	return account, token, nil
}

// Login verifies credentials and returns the account with a fresh token.
// Unknown email and wrong password are indistinguishable; inactive accounts
// are blocked even with a correct password.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Account, string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return domain.Account{}, "", fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	if password == "" {
		return domain.Account{}, "", fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
	}

	account, err := s.accounts.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Account{}, "", domain.ErrInvalidCredentials
		}
		return domain.Account{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", email)
		return domain.Account{}, "", domain.ErrInvalidCredentials
	}
	if !account.IsActive {
		return domain.Account{}, "", domain.ErrAccountInactive
	}

	token, err := s.codec.Issue(account.Email, account.Role, s.now())
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("issue token: %w", err)
	}
	slog.Info("account logged in", "id", account.ID, "email", account.Email)
	return account, token, nil
}

// AccountBySubject resolves a verified token subject back to its account.
func (s *AuthService) AccountBySubject(ctx context.Context, subject string) (domain.Account, error) {
	return s.accounts.ByEmail(ctx, subject)
}
