package service

import (
	"context"
	"strings"
	"time"

	"direct_chat/internal/domain"
	"direct_chat/internal/events"
	"direct_chat/internal/repository"
	"direct_chat/pkg/chatutil"
	"direct_chat/pkg/logger"
)

type DirectoryService interface {
	List(ctx context.Context, selfID, search string) ([]*domain.DirectoryEntry, error)
	Heartbeat(ctx context.Context, userID string) error
}

type directoryService struct {
	userRepo repository.UserRepository
	notifier events.Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewDirectoryService(userRepo repository.UserRepository, notifier events.Notifier, log logger.Logger) DirectoryService {
	return &directoryService{
		userRepo: userRepo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// List возвращает справочник пользователей без самого запрашивающего,
// отсортированный по имени, с необязательным фильтром по подстроке имени.
// Статус онлайн вычисляется заново на каждый запрос, без кэширования.
func (s *directoryService) List(ctx context.Context, selfID, search string) ([]*domain.DirectoryEntry, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	search = strings.ToLower(strings.TrimSpace(search))

	entries := make([]*domain.DirectoryEntry, 0, len(users))
	for _, user := range users {
		if user.ID == selfID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(user.DisplayName), search) {
			continue
		}

		entries = append(entries, &domain.DirectoryEntry{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			Email:       user.Email,
			AvatarURL:   user.AvatarURL,
			Initials:    chatutil.Initials(user.DisplayName),
			Online:      chatutil.IsOnline(user.LastOnlineAt, now),
			LastSeen:    chatutil.FormatLastSeen(user.LastOnlineAt, now),
		})
	}

	return entries, nil
}

// Heartbeat продвигает отметку присутствия пользователя и уведомляет
// подписчиков справочника.
func (s *directoryService) Heartbeat(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateLastOnline(ctx, userID); err != nil {
		return err
	}

	if err := s.notifier.Publish(ctx, events.TopicUsers); err != nil {
		s.log.Warn("Failed to notify directory about heartbeat", "error", err, "user_id", userID)
	}

	return nil
}
