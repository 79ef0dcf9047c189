package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"direct_chat/internal/domain"
	"direct_chat/internal/events"
	"direct_chat/internal/repository"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

type MessageService interface {
	Send(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error)
	List(ctx context.Context, conversationID, requesterID string) ([]*domain.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	convRepo    repository.ConversationRepository
	notifier    events.Notifier
	log         logger.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, convRepo repository.ConversationRepository, notifier events.Notifier, log logger.Logger) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		convRepo:    convRepo,
		notifier:    notifier,
		log:         log,
	}
}

// Send добавляет сообщение в журнал диалога. Пустой (после трима) текст —
// не ошибка, а no-op: возвращается (nil, nil), вызывающий очищает черновик.
// При ошибке хранилища сообщение не записано, вызывающий сохраняет черновик
// для повтора. Отметку времени назначает база при вставке.
func (s *messageService) Send(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, apperrors.ErrNotParticipant
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > domain.MaxMessageLength {
		return nil, apperrors.ErrMessageTooLong
	}

	message := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMessageSend, err)
	}

	// Сообщение уже записано; потерянное уведомление не откатывает отправку
	if err := s.notifier.Publish(ctx, events.TopicConversation(conversationID)); err != nil {
		s.log.Warn("Failed to notify conversation subscribers", "error", err, "conversation_id", conversationID)
	}

	return message, nil
}

// List возвращает журнал диалога в порядке возрастания времени записи.
func (s *messageService) List(ctx context.Context, conversationID, requesterID string) ([]*domain.Message, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, apperrors.ErrNotParticipant
	}

	return s.messageRepo.ListByConversation(ctx, conversationID)
}
