package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
)

var (
	// ErrSendFailed возвращается, когда Telegram не принял сообщение
	ErrSendFailed = errors.New("telegram client: send failed")
)

// Client отправка сообщений студентам через Telegram-бота автошколы
type Client struct {
	bot *bot.Bot
}

// NewClient создает клиента поверх токена бота
// serverURL пустой для api.telegram.org
func NewClient(token, serverURL string) (*Client, error) {
	opts := []bot.Option{bot.WithSkipGetMe()}
	if serverURL != "" {
		opts = append(opts, bot.WithServerURL(serverURL))
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telegram client: failed to create bot: %w", err)
	}
	return &Client{bot: b}, nil
}

// SendTelegram отправляет текст в чат и возвращает ID сообщения
func (c *Client) SendTelegram(ctx context.Context, chatID int64, text string) (string, error) {
	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return strconv.Itoa(msg.ID), nil
}
