package handler

import (
	"direct_chat/internal/config"
	"direct_chat/internal/service"
	"direct_chat/internal/stream"
	"direct_chat/pkg/logger"
)

type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Conversation *ConversationHandler
	WebSocket    *WebSocketHandler
}

func NewHandlers(services *service.Services, broker *stream.Broker, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(cfg),
		Auth:         NewAuthHandler(services.Auth, log),
		User:         NewUserHandler(services.User, services.Directory, log),
		Conversation: NewConversationHandler(services.Conversation, services.Message, log),
		WebSocket:    NewWebSocketHandler(broker, services.Auth, services.Directory, services.Conversation, services.Message, log),
	}
}
