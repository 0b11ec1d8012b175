package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"microchat/internal/models"
	"microchat/internal/repository"
	"microchat/internal/storage"
)

type UserService interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetProfile(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, req repository.UpdateProfileRequest) (*models.User, error)
	SetAvatar(ctx context.Context, userID string, image models.Image) (string, error)
	GetAvatar(ctx context.Context, username string) (*models.Image, error)
	TouchLastSeen(ctx context.Context, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
}

func NewUserService(userRepo repository.UserRepository, storage storage.Storage) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  storage,
	}
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetUserByUsername(ctx, username)
}

func (s *userService) UpdateProfile(ctx context.Context, req repository.UpdateProfileRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if len([]rune(req.AboutMe)) > models.MaxAboutMeLength {
		return nil, fmt.Errorf("поле «о себе» длиннее %d символов: %w", models.MaxAboutMeLength, models.ErrValidation)
	}

	user, err := s.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.AboutMe = req.AboutMe

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) SetAvatar(ctx context.Context, userID string, image models.Image) (string, error) {
	if err := checkImage(&image); err != nil {
		return "", err
	}

	url := mirrorImage(ctx, s.storage, storage.PrefixAvatars, userID, image)

	if err := s.userRepo.SetAvatar(ctx, userID, image.Data, url); err != nil {
		return "", err
	}

	return url, nil
}

func (s *userService) GetAvatar(ctx context.Context, username string) (*models.Image, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	data, err := s.userRepo.GetAvatar(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return loadedImage(data), nil
}

func (s *userService) TouchLastSeen(ctx context.Context, userID string) error {
	return s.userRepo.UpdateLastSeen(ctx, userID, time.Now().UTC())
}
