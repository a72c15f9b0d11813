package publish_lesson_update

import (
	"context"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, topic events.Topic, payload interface{}) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
