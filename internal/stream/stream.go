package stream

import (
	"context"
	"sync"

	"direct_chat/internal/events"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

// SnapshotFunc загружает полный снимок коллекции, на которую оформлена
// подписка (справочник пользователей или журнал одного диалога).
type SnapshotFunc func(ctx context.Context) (any, error)

// Event — одна доставка подписки. Err != nil означает терминальную ошибку:
// после нее канал закрывается и подписка мертва, автоматических повторов нет
// (повтор — решение владельца представления, обычно переоткрытие).
type Event struct {
	Snapshot any
	Err      error
}

// Broker оформляет долгоживущие подписки поверх уведомлений об изменениях.
// Семантика снимков: каждая доставка полностью заменяет локальное
// представление коллекции, инкрементального слияния нет.
type Broker struct {
	notifier events.Notifier
	log      logger.Logger
}

func NewBroker(notifier events.Notifier, log logger.Logger) *Broker {
	return &Broker{notifier: notifier, log: log}
}

type Subscription struct {
	C      <-chan Event
	cancel func()
	once   sync.Once
}

// Close отменяет подписку. Идемпотентен: владелец представления может
// закрывать при смене собеседника, размонтировании и завершении сессии,
// фактическая отмена произойдет ровно один раз.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Subscribe открывает подписку на topic. Первый снимок доставляется сразу,
// затем по одному на каждое уведомление об изменении, в порядке поступления
// уведомлений (один пишущий goroutine на подписку).
func (b *Broker) Subscribe(ctx context.Context, topic string, load SnapshotFunc) *Subscription {
	ctx, cancelCtx := context.WithCancel(ctx)
	notifyCh, cancelNotify := b.notifier.Subscribe(ctx, topic)

	out := make(chan Event)
	sub := &Subscription{
		C: out,
		cancel: func() {
			cancelNotify()
			cancelCtx()
		},
	}

	go func() {
		defer close(out)

		if !b.deliver(ctx, out, load) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notifyCh:
				if !ok {
					// Транспорт уведомлений умер — для представления это
					// терминальная ошибка подписки
					b.emit(ctx, out, Event{Err: apperrors.ErrSubscription})
					return
				}
				if !b.deliver(ctx, out, load) {
					return
				}
			}
		}
	}()

	return sub
}

// deliver загружает и отправляет снимок; false — подписка завершена.
func (b *Broker) deliver(ctx context.Context, out chan<- Event, load SnapshotFunc) bool {
	snapshot, err := load(ctx)
	if err != nil {
		b.log.Error("Failed to load subscription snapshot", "error", err)
		b.emit(ctx, out, Event{Err: apperrors.ErrSubscription})
		return false
	}
	return b.emit(ctx, out, Event{Snapshot: snapshot})
}

func (b *Broker) emit(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return ev.Err == nil
	case <-ctx.Done():
		return false
	}
}
