package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"direct_chat/internal/domain"
	"direct_chat/internal/events"
	apperrors "direct_chat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageFixture(t *testing.T) (MessageService, *fakeMessageRepo, *fakeConvRepo, *fakeNotifier) {
	t.Helper()
	convs := newFakeConvRepo()
	require.NoError(t, convs.CreateIfAbsent(context.Background(), &domain.Conversation{
		ID:      "alice123_bob456",
		UserAID: "alice123",
		UserBID: "bob456",
	}))
	messages := &fakeMessageRepo{}
	notifier := &fakeNotifier{}
	return NewMessageService(messages, convs, notifier, testLog), messages, convs, notifier
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("stores trimmed text and notifies subscribers", func(t *testing.T) {
		svc, messages, _, notifier := newMessageFixture(t)

		msg, err := svc.Send(ctx, "alice123_bob456", "alice123", "  hello bob  ")
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, "hello bob", msg.Text)
		assert.Equal(t, "alice123", msg.SenderID)
		assert.False(t, msg.CreatedAt.IsZero())
		assert.Len(t, messages.messages, 1)
		assert.Equal(t, []string{events.TopicConversation("alice123_bob456")}, notifier.topics())
	})

	t.Run("whitespace-only text is a silent no-op", func(t *testing.T) {
		svc, messages, _, notifier := newMessageFixture(t)

		msg, err := svc.Send(ctx, "alice123_bob456", "alice123", "   \n\t ")
		require.NoError(t, err)
		assert.Nil(t, msg)
		assert.Empty(t, messages.messages)
		assert.Empty(t, notifier.topics())
	})

	t.Run("over-length text is rejected", func(t *testing.T) {
		svc, messages, _, _ := newMessageFixture(t)

		msg, err := svc.Send(ctx, "alice123_bob456", "alice123", strings.Repeat("a", domain.MaxMessageLength+1))
		assert.ErrorIs(t, err, apperrors.ErrMessageTooLong)
		assert.Nil(t, msg)
		assert.Empty(t, messages.messages)
	})

	t.Run("text at the limit is accepted", func(t *testing.T) {
		svc, _, _, _ := newMessageFixture(t)

		msg, err := svc.Send(ctx, "alice123_bob456", "alice123", strings.Repeat("a", domain.MaxMessageLength))
		require.NoError(t, err)
		require.NotNil(t, msg)
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		svc, messages, _, _ := newMessageFixture(t)

		_, err := svc.Send(ctx, "alice123_bob456", "carol789", "hi")
		assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
		assert.Empty(t, messages.messages)
	})

	t.Run("missing conversation is rejected", func(t *testing.T) {
		svc, _, _, _ := newMessageFixture(t)

		_, err := svc.Send(ctx, "nope_nope2", "alice123", "hi")
		assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
	})

	t.Run("storage failure preserves the draft semantics", func(t *testing.T) {
		svc, messages, _, notifier := newMessageFixture(t)
		messages.failCreate = errors.New("connection refused")

		msg, err := svc.Send(ctx, "alice123_bob456", "alice123", "hello")
		assert.ErrorIs(t, err, apperrors.ErrMessageSend)
		assert.Nil(t, msg)
		assert.Empty(t, notifier.topics())
	})
}

func TestMessageService_List(t *testing.T) {
	ctx := context.Background()
	svc, messages, _, _ := newMessageFixture(t)

	// Хронология определяется временем записи, не порядком вставки
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	messages.messages = []*domain.Message{
		{ID: 3, ConversationID: "alice123_bob456", SenderID: "alice123", Text: "third", CreatedAt: base.Add(2 * time.Second)},
		{ID: 1, ConversationID: "alice123_bob456", SenderID: "alice123", Text: "first", CreatedAt: base},
		{ID: 2, ConversationID: "alice123_bob456", SenderID: "bob456", Text: "second", CreatedAt: base.Add(time.Second)},
	}

	t.Run("returns ascending by backend timestamp", func(t *testing.T) {
		list, err := svc.List(ctx, "alice123_bob456", "bob456")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "first", list[0].Text)
		assert.Equal(t, "second", list[1].Text)
		assert.Equal(t, "third", list[2].Text)
	})

	t.Run("outsider cannot read", func(t *testing.T) {
		_, err := svc.List(ctx, "alice123_bob456", "carol789")
		assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
	})
}
