package service

import (
	"context"
	"strings"

	"direct_chat/internal/domain"
	"direct_chat/internal/events"
	"direct_chat/internal/repository"
	"direct_chat/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context, userID string) (*domain.User, error)
	UpdateMe(ctx context.Context, userID string, displayName string, avatarURL *string) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	notifier events.Notifier
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, notifier events.Notifier, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		notifier: notifier,
		log:      log,
	}
}

func (s *userService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateMe(ctx context.Context, userID string, displayName string, avatarURL *string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(displayName); name != "" {
		user.DisplayName = name
	}
	if avatarURL != nil {
		user.AvatarURL = avatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Профиль виден в чужих справочниках — уведомляем подписчиков
	if err := s.notifier.Publish(ctx, events.TopicUsers); err != nil {
		s.log.Warn("Failed to notify directory about profile update", "error", err, "user_id", userID)
	}

	user.PasswordHash = ""
	return user, nil
}
