package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/leafmark/leafmark/internal/platform/httpx"
	"github.com/leafmark/leafmark/internal/token"
)

// Service wraps registration and login business rules.
type Service struct {
	repo   Repository
	tokens *token.Codec
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *token.Codec) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account with the Member role and issues a token for
// the new identity.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user, err := s.repo.CreateUser(ctx, norm.NFC.String(username), email, string(hash))
	if err != nil {
		return nil, "", err
	}
	signed, err := s.tokens.Issue(user.ID, user.Roles)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// Login validates credentials and issues a fresh token carrying the
// current role snapshot. Failures never reveal which input was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Only an absent account is a credential failure; storage
		// errors must surface as such, not as a rejected login.
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid email or password", httpx.ErrUnauthorized)
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email or password", httpx.ErrUnauthorized)
	}
	signed, err := s.tokens.Issue(user.ID, user.Roles)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}
