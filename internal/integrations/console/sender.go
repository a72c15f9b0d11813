// Package console prints notifications to the service log instead of sending them.
package console

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Sender канал для локальной разработки, реализует все каналы уведомлений
type Sender struct {
	log Logger
}

// NewSender создает консольный канал
func NewSender(log Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) SendEmail(_ context.Context, toName, toAddress, subject, body string) (string, error) {
	id := "console-" + uuid.NewString()
	s.log.Info("[email %s] to=%s <%s> subject=%q\n%s", id, toName, toAddress, subject, body)
	return id, nil
}

func (s *Sender) SendSMS(_ context.Context, to, body string) (string, error) {
	id := "console-" + uuid.NewString()
	s.log.Info("[sms %s] to=%s\n%s", id, to, body)
	return id, nil
}

func (s *Sender) SendTelegram(_ context.Context, chatID int64, text string) (string, error) {
	id := "console-" + uuid.NewString()
	s.log.Info("[telegram %s] chat=%s\n%s", id, strconv.FormatInt(chatID, 10), text)
	return id, nil
}
