package consumer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/events"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/book_credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/issue_credit"
)

const (
	defaultRetryBase  = 100 * time.Millisecond
	defaultMaxRetries = 3
)

// Consumer читает события шины и передает их в use case
type Consumer struct {
	bus      Subscriber
	issuer   CreditIssuer
	outcomes LessonOutcomeHandler
	logger   Logger

	retryBase  time.Duration
	maxRetries uint64

	mu   sync.Mutex
	subs []*events.Subscription
	wg   sync.WaitGroup
}

// New создает потребителя событий
func New(bus Subscriber, issuer CreditIssuer, outcomes LessonOutcomeHandler, logger Logger) *Consumer {
	return &Consumer{
		bus:        bus,
		issuer:     issuer,
		outcomes:   outcomes,
		logger:     logger,
		retryBase:  defaultRetryBase,
		maxRetries: defaultMaxRetries,
	}
}

// WithRetry задает повторы обработки итогов урока
func (c *Consumer) WithRetry(base time.Duration, maxRetries uint64) *Consumer {
	if base > 0 {
		c.retryBase = base
	}
	c.maxRetries = maxRetries
	return c
}

// Start подписывается на отмены и изменения уроков
func (c *Consumer) Start(ctx context.Context) error {
	handlers := map[events.Topic]func(context.Context, events.Message){
		events.TopicCancellations: c.handleCancellation,
		events.TopicLessonUpdates: c.handleLessonUpdate,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for topic, handle := range handlers {
		sub, err := c.bus.Subscribe(topic)
		if err != nil {
			return err
		}
		c.subs = append(c.subs, sub)

		c.wg.Add(1)
		go c.loop(ctx, sub, handle)
		c.logger.Info("Consumer: subscribed to %s", topic)
	}
	return nil
}

// Stop отписывается и ждет обработки текущих сообщений
func (c *Consumer) Stop() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	c.wg.Wait()
}

func (c *Consumer) loop(ctx context.Context, sub *events.Subscription, handle func(context.Context, events.Message)) {
	defer c.wg.Done()

	for {
		select {
		case msg := <-sub.C():
			handle(ctx, msg)
		case <-sub.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Consumer) handleCancellation(ctx context.Context, msg events.Message) {
	event, ok := msg.Payload.(domain.CancellationEvent)
	if !ok {
		c.logger.Error("Consumer: unexpected payload %T on %s", msg.Payload, msg.Topic)
		return
	}

	result, err := c.issuer.Execute(ctx, event)
	switch {
	case err == nil:
		c.logger.Info("Consumer: lesson=%s -> credit=%s status=%s created=%t",
			event.LessonID, result.Credit.ID, result.Credit.Status, result.Created)
	case errors.Is(err, issue_credit.ErrNotEligible), errors.Is(err, issue_credit.ErrCreditConflict):
		c.logger.Info("Consumer: no credit for lesson=%s: %v", event.LessonID, err)
	default:
		c.logger.Error("Consumer: failed to process cancellation of lesson=%s: %v", event.LessonID, err)
	}
}

func (c *Consumer) handleLessonUpdate(ctx context.Context, msg events.Message) {
	update, ok := msg.Payload.(domain.LessonUpdate)
	if !ok {
		c.logger.Error("Consumer: unexpected payload %T on %s", msg.Payload, msg.Topic)
		return
	}

	var apply func(ctx context.Context) error
	switch update.Type {
	case domain.LessonUpdateCompleted:
		apply = func(ctx context.Context) error {
			_, err := c.outcomes.HandleLessonCompleted(ctx, update.LessonID, update.Timestamp)
			return err
		}
	case domain.LessonUpdateCancelled:
		apply = func(ctx context.Context) error {
			_, err := c.outcomes.HandleLessonCancelled(ctx, update.LessonID)
			return err
		}
	default:
		return
	}

	// Уже обработанные кредиты повтор пропускает
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := apply(ctx)
		if err == nil || errors.Is(err, book_credit.ErrInvalidInput) {
			return err
		}
		c.logger.Warn("Consumer: retrying %s for lesson=%s: %v", update.Type, update.LessonID, err)
		return retry.RetryableError(err)
	})
	if err != nil {
		c.logger.Error("Consumer: failed to apply %s for lesson=%s: %v", update.Type, update.LessonID, err)
	}
}
