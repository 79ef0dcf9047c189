package service

import (
	"direct_chat/internal/config"
	"direct_chat/internal/events"
	"direct_chat/internal/repository"
	"direct_chat/pkg/logger"
)

type Services struct {
	Auth         AuthService
	User         UserService
	Directory    DirectoryService
	Conversation ConversationService
	Message      MessageService
	RateLimit    RateLimitService
}

func NewServices(repos *repository.Repositories, notifier events.Notifier, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Auth:         NewAuthService(repos.User, notifier, cfg.JWT, log),
		User:         NewUserService(repos.User, notifier, log),
		Directory:    NewDirectoryService(repos.User, notifier, log),
		Conversation: NewConversationService(repos.Conversation, repos.User, log),
		Message:      NewMessageService(repos.Message, repos.Conversation, notifier, log),
		RateLimit:    NewRateLimitService(repos.RateLimit, log),
	}
}
