package events

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Topic канал событий
type Topic string

const (
	// TopicCancellations отмены уроков, payload domain.CancellationEvent
	TopicCancellations Topic = "cancellations"

	// TopicLessonUpdates изменения уроков, payload domain.LessonUpdate
	TopicLessonUpdates Topic = "lesson_updates"
)

const defaultBufferSize = 64

var (
	// ErrBusClosed возвращается при публикации в закрытую шину
	ErrBusClosed = errors.New("events: bus closed")

	// ErrNoSubscribers возвращается, когда на топик никто не подписан
	ErrNoSubscribers = errors.New("events: no subscribers")
)

// Message событие в шине
type Message struct {
	Topic       Topic
	Payload     interface{}
	PublishedAt time.Time
}

// Bus шина событий внутри процесса
// Каждый подписчик получает все сообщения топика в порядке публикации
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]*Subscription
	buffer int
	closed bool
}

// NewBus создает шину, buffer размер очереди каждого подписчика
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultBufferSize
	}
	return &Bus{subs: make(map[Topic][]*Subscription), buffer: buffer}
}

// Publish доставляет сообщение всем подписчикам топика
// Блокируется, пока очередь подписчика заполнена, до отмены ctx
func (b *Bus) Publish(ctx context.Context, topic Topic, payload interface{}) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	subs := append([]*Subscription(nil), b.subs[topic]...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		return ErrNoSubscribers
	}

	msg := Message{Topic: topic, Payload: payload, PublishedAt: time.Now().UTC()}
	for _, sub := range subs {
		select {
		case sub.ch <- msg:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe подписывается на топик
func (b *Bus) Subscribe(topic Topic) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	sub := &Subscription{
		topic: topic,
		ch:    make(chan Message, b.buffer),
		done:  make(chan struct{}),
		bus:   b,
	}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub, nil
}

// Close закрывает шину и все подписки
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[Topic][]*Subscription)
	b.mu.Unlock()

	for _, list := range subs {
		for _, sub := range list {
			sub.stop()
		}
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.topic]
	for i, s := range list {
		if s == sub {
			b.subs[sub.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Subscription подписка на топик
type Subscription struct {
	topic Topic
	ch    chan Message
	done  chan struct{}
	once  sync.Once
	bus   *Bus
}

// C канал сообщений подписки
func (s *Subscription) C() <-chan Message {
	return s.ch
}

// Done закрывается после отписки или закрытия шины
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe отписывается от топика, непрочитанные сообщения теряются
func (s *Subscription) Unsubscribe() {
	s.bus.remove(s)
	s.stop()
}

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
}
