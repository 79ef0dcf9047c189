package events

import (
	"context"
	"sync"

	"direct_chat/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// TopicUsers — любой профиль создан или обновлен (справочник пользователей).
const TopicUsers = "users"

// TopicConversation — в журнал диалога добавлено сообщение.
func TopicConversation(conversationID string) string {
	return "conversation:" + conversationID
}

// Notifier разносит уведомления об изменениях между инстансами.
// Уведомление не несет данных: подписчик перечитывает коллекцию целиком
// и заменяет свой снимок, инкрементального слияния нет.
type Notifier interface {
	Publish(ctx context.Context, topic string) error
	// Subscribe возвращает канал уведомлений и функцию отмены. Канал
	// закрывается при отмене или при ошибке транспорта; закрытие без
	// отмены подписчик обязан трактовать как терминальную ошибку подписки.
	Subscribe(ctx context.Context, topic string) (<-chan struct{}, func())
}

type redisNotifier struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisNotifier(client *redis.Client, log logger.Logger) Notifier {
	return &redisNotifier{client: client, log: log}
}

func (n *redisNotifier) Publish(ctx context.Context, topic string) error {
	if err := n.client.Publish(ctx, topic, "1").Err(); err != nil {
		n.log.Error("Failed to publish change notification", "error", err, "topic", topic)
		return err
	}
	return nil
}

func (n *redisNotifier) Subscribe(ctx context.Context, topic string) (<-chan struct{}, func()) {
	pubsub := n.client.Subscribe(ctx, topic)
	out := make(chan struct{}, 1)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}

	go func() {
		defer close(out)
		for range pubsub.Channel() {
			// Схлопываем всплески: подписчику важен лишь факт изменения,
			// перечитает он в любом случае всю коллекцию.
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	return out, cancel
}
