package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/events"
)

func TestBus_DeliversInOrderToEverySubscriber(t *testing.T) {
	bus := events.NewBus(4)
	first, err := bus.Subscribe(events.TopicLessonUpdates)
	require.NoError(t, err)
	second, err := bus.Subscribe(events.TopicLessonUpdates)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, events.TopicLessonUpdates, "a"))
	require.NoError(t, bus.Publish(ctx, events.TopicLessonUpdates, "b"))

	for _, sub := range []*events.Subscription{first, second} {
		assert.Equal(t, "a", (<-sub.C()).Payload)
		assert.Equal(t, "b", (<-sub.C()).Payload)
	}
}

func TestBus_TopicsAreIsolated(t *testing.T) {
	bus := events.NewBus(1)
	sub, err := bus.Subscribe(events.TopicCancellations)
	require.NoError(t, err)

	err = bus.Publish(context.Background(), events.TopicLessonUpdates, "x")

	assert.ErrorIs(t, err, events.ErrNoSubscribers)
	assert.Empty(t, sub.C())
}

func TestBus_PublishRespectsContextWhenQueueIsFull(t *testing.T) {
	bus := events.NewBus(1)
	_, err := bus.Subscribe(events.TopicCancellations)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), events.TopicCancellations, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = bus.Publish(ctx, events.TopicCancellations, 2)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBus_UnsubscribeAndClose(t *testing.T) {
	bus := events.NewBus(1)
	sub, err := bus.Subscribe(events.TopicCancellations)
	require.NoError(t, err)

	sub.Unsubscribe()
	<-sub.Done()
	assert.ErrorIs(t, bus.Publish(context.Background(), events.TopicCancellations, 1), events.ErrNoSubscribers)

	other, err := bus.Subscribe(events.TopicCancellations)
	require.NoError(t, err)
	bus.Close()
	<-other.Done()

	assert.ErrorIs(t, bus.Publish(context.Background(), events.TopicCancellations, 1), events.ErrBusClosed)
	_, err = bus.Subscribe(events.TopicCancellations)
	assert.ErrorIs(t, err, events.ErrBusClosed)
}
