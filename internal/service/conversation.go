package service

import (
	"context"
	"fmt"

	"direct_chat/internal/domain"
	"direct_chat/internal/repository"
	"direct_chat/pkg/chatutil"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

type ConversationService interface {
	Open(ctx context.Context, selfID, peerID string) (*domain.Conversation, error)
	Get(ctx context.Context, conversationID, requesterID string) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error)
}

type conversationService struct {
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewConversationService(convRepo repository.ConversationRepository, userRepo repository.UserRepository, log logger.Logger) ConversationService {
	return &conversationService{
		convRepo: convRepo,
		userRepo: userRepo,
		log:      log,
	}
}

// Open возвращает диалог для пары (selfID, peerID), создавая запись при
// первом открытии с любой из сторон. Операция идемпотентна: ID диалога
// детерминирован, повторные и конкурентные вызовы дают одну запись.
// При любой ошибке хранилища диалог не возвращается — вызывающий не должен
// переводить представление в активное состояние.
func (s *conversationService) Open(ctx context.Context, selfID, peerID string) (*domain.Conversation, error) {
	if selfID == peerID {
		return nil, apperrors.ErrSelfConversation
	}

	if _, err := s.userRepo.GetByID(ctx, peerID); err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	conversationID := chatutil.ConversationID(selfID, peerID)

	// Участники хранятся в порядке следования в ID
	userA, userB := selfID, peerID
	if userB < userA {
		userA, userB = userB, userA
	}

	conv := &domain.Conversation{
		ID:      conversationID,
		UserAID: userA,
		UserBID: userB,
	}

	if err := s.convRepo.CreateIfAbsent(ctx, conv); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConversationInit, err)
	}

	stored, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConversationInit, err)
	}

	s.log.Debug("Conversation opened", "conversation_id", stored.ID, "user_id", selfID, "peer_id", peerID)
	return stored, nil
}

func (s *conversationService) Get(ctx context.Context, conversationID, requesterID string) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(requesterID) {
		return nil, apperrors.ErrNotParticipant
	}

	return conv, nil
}

func (s *conversationService) ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	return s.convRepo.ListForUser(ctx, userID)
}
