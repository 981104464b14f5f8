package service

import (
	"context"
	"net/http"

	"github.com/inkwell-labs/inkwell/internal/model"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/inkwell-labs/inkwell/pkg/apperror"
)

const userSearchLimit = 50

type UserService interface {
	SearchUsers(ctx context.Context, query string) ([]model.User, error)
	GetProfile(ctx context.Context, username string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	return s.userRepo.SearchByUsername(ctx, query, userSearchLimit)
}

func (s *userService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperror.New(http.StatusNotFound, "user not found", apperror.ErrNotFound)
	}
	// Email is private to the account owner.
	user.Email = ""
	return user, nil
}
