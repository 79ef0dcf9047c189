package repository

import (
	"context"
	"errors"

	"direct_chat/internal/domain"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConversationRepository interface {
	CreateIfAbsent(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error)
}

type conversationRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewConversationRepository(db *pgxpool.Pool, log logger.Logger) ConversationRepository {
	return &conversationRepository{db: db, log: log}
}

// CreateIfAbsent создает запись диалога, если ее еще нет. Первичный ключ —
// детерминированный ID пары, поэтому гонка двух первых открытий с обеих
// сторон безобидна: содержимое записи одинаково независимо от победителя.
func (r *conversationRepository) CreateIfAbsent(ctx context.Context, conv *domain.Conversation) error {
	query := `
		INSERT INTO conversations (id, user_a_id, user_b_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, conv.ID, conv.UserAID, conv.UserBID)
	if err != nil {
		r.log.Error("Failed to create conversation", "error", err, "conversation_id", conv.ID)
		return err
	}

	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at
		FROM conversations
		WHERE id = $1
	`

	conv := &domain.Conversation{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&conv.ID, &conv.UserAID, &conv.UserBID, &conv.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConversationNotFound
		}
		r.log.Error("Failed to get conversation", "error", err, "conversation_id", id)
		return nil, err
	}

	return conv, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at
		FROM conversations
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list conversations", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	var convs []*domain.Conversation
	for rows.Next() {
		conv := &domain.Conversation{}
		if err := rows.Scan(&conv.ID, &conv.UserAID, &conv.UserBID, &conv.CreatedAt); err != nil {
			r.log.Error("Failed to scan conversation", "error", err)
			return nil, err
		}
		convs = append(convs, conv)
	}

	return convs, rows.Err()
}
