package services

import (
	"context"

	"github.com/mindwell/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByEmailOrGoogleID(ctx context.Context, email, googleID string) (types.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	LinkGoogleIdentity(ctx context.Context, id, googleID, avatarURL string) (types.User, error)
	Touch(ctx context.Context, id string) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetByEmailOrGoogleID(ctx context.Context, email, googleID string) (types.User, error) {
	return s.repo.GetByEmailOrGoogleID(ctx, email, googleID)
}

func (s *UserService) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return s.repo.ExistsByEmailOrUsername(ctx, email, username)
}

func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.repo.UsernameExists(ctx, username)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

func (s *UserService) LinkGoogleIdentity(ctx context.Context, id, googleID, avatarURL string) (types.User, error) {
	return s.repo.LinkGoogleIdentity(ctx, id, googleID, avatarURL)
}

func (s *UserService) Touch(ctx context.Context, id string) error {
	return s.repo.Touch(ctx, id)
}
