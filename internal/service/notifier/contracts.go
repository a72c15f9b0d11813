package notifier

import (
	"context"
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// ContactDirectory интерфейс справочника контактов студентов
type ContactDirectory interface {
	GetContact(ctx context.Context, tenantID, studentID string) (*domain.StudentContact, error)
}

// ConfigResolver возвращает действующую конфигурацию (часовой пояс автошколы)
type ConfigResolver interface {
	Resolve(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error)
}

// EmailSender канал email
type EmailSender interface {
	SendEmail(ctx context.Context, toName, toAddress, subject, body string) (string, error)
}

// SMSSender канал SMS
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// TelegramSender канал Telegram
type TelegramSender interface {
	SendTelegram(ctx context.Context, chatID int64, text string) (string, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
