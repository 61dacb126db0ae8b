package users

import (
	"context"

	"golang.org/x/text/unicode/norm"
)

// RepositoryPort defines data access methods for user accounts.
type RepositoryPort interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, username, email string) (*Profile, error)
	ListOthers(ctx context.Context, excludeID int64) ([]User, error)
	Delete(ctx context.Context, userID int64) error
}

// Service handles account business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the acting user's own profile.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile updates the acting user's own profile. The username is
// NFC-normalized so the same spelling cannot exist in two encodings,
// matching what registration stores.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, username, email string) (*Profile, error) {
	return s.repo.UpdateProfile(ctx, userID, norm.NFC.String(username), email)
}

// ListOthers returns all accounts except the caller's.
func (s *Service) ListOthers(ctx context.Context, excludeID int64) ([]User, error) {
	return s.repo.ListOthers(ctx, excludeID)
}

// Delete removes an account by id.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}
