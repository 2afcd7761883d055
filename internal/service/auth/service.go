package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"shoppyglobe/internal/domain"
	userrepo "shoppyglobe/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match. The
	// same error covers unknown email and wrong password so callers cannot
	// tell which factor was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user already exists")
	// ErrPasswordTooShort is returned when the password fails the length rule.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
)

// bcryptCost matches the salt rounds used by the original API.
const bcryptCost = 10

// Service handles registration, login, and token-to-user resolution.
type Service struct {
	users  userrepo.Repository
	tokens *TokenManager
}

func New(users userrepo.Repository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// RegisterInput captures the fields expected by the register endpoint.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user with a bcrypt-hashed password and returns it with a
// freshly issued token. The plaintext password is never persisted or logged.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := normalizeEmail(in.Email)
	if len(in.Password) < 6 {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		// A concurrent registration can slip past the lookup; the unique
		// constraint is the authority.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login validates credentials and returns the user plus an issued token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UserFromToken verifies the token and resolves it to a full user record. A
// verified token whose subject no longer exists is treated as invalid rather
// than resolving to a null identity.
func (s *Service) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
