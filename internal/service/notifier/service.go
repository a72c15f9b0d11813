package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// displayDateFormat формат дат в текстах уведомлений
const displayDateFormat = "02.01.2006"

// Channels подключенные каналы доставки, nil означает отключенный канал
type Channels struct {
	Email    EmailSender
	SMS      SMSSender
	Telegram TelegramSender
}

// Service отправляет уведомления студентам о кредитах отработки
// Канал выбирается по предпочтению студента, при ошибке используется email
type Service struct {
	directory    ContactDirectory
	configs      ConfigResolver
	channels     Channels
	renderer     *Renderer
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает сервис уведомлений
func NewService(directory ContactDirectory, configs ConfigResolver, channels Channels, logger Logger) (*Service, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Service{
		directory:    directory,
		configs:      configs,
		channels:     channels,
		renderer:     renderer,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}, nil
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// SendReminder напоминает, что до истечения кредита осталось offsetDays дней
func (s *Service) SendReminder(ctx context.Context, credit *domain.MakeupCredit, offsetDays int) (domain.DispatchResult, error) {
	return s.dispatch(ctx, credit, domain.NotificationReminder, offsetDays, "")
}

// SendAvailable сообщает, что кредит доступен для бронирования
func (s *Service) SendAvailable(ctx context.Context, credit *domain.MakeupCredit) (domain.DispatchResult, error) {
	return s.dispatch(ctx, credit, domain.NotificationAvailable, credit.DaysRemaining(s.timeProvider.Now()), "")
}

// SendRejected сообщает, что заявка на отработку отклонена
func (s *Service) SendRejected(ctx context.Context, credit *domain.MakeupCredit, reason string) (domain.DispatchResult, error) {
	return s.dispatch(ctx, credit, domain.NotificationRejected, 0, reason)
}

func (s *Service) dispatch(
	ctx context.Context,
	credit *domain.MakeupCredit,
	kind domain.NotificationKind,
	days int,
	reason string,
) (domain.DispatchResult, error) {
	contact, err := s.directory.GetContact(ctx, credit.TenantID, credit.StudentID)
	if err != nil {
		s.logger.Error("Dispatch: failed to get contact of student=%s: %v", credit.StudentID, err)
		return domain.DispatchResult{}, fmt.Errorf("%w: contact lookup: %v", ErrDispatchFailure, err)
	}

	subject, body, err := s.renderer.Render(contact.Locale, kind, templateData{
		FirstName:     contact.FirstName,
		Category:      credit.Category,
		DaysRemaining: days,
		ExpiresAt:     credit.ExpiresAt.In(s.location(ctx, credit)).Format(displayDateFormat),
		Reason:        reason,
	})
	if err != nil {
		s.logger.Error("Dispatch: %v", err)
		return domain.DispatchResult{}, fmt.Errorf("%w: %v", ErrDispatchFailure, err)
	}

	var errs []error
	for _, channel := range channelOrder(contact.PreferredChannel) {
		messageID, err := s.send(ctx, channel, contact, subject, body)
		if errors.Is(err, ErrNoChannel) {
			continue
		}
		if err != nil {
			s.logger.Warn("Dispatch: %s via %s failed for credit=%s: %v", kind, channel, credit.ID, err)
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
			continue
		}

		s.logger.Info("Dispatch: %s sent via %s for credit=%s (message=%s)", kind, channel, credit.ID, messageID)
		return domain.DispatchResult{
			Channel:   channel,
			MessageID: messageID,
			SentAt:    s.timeProvider.Now(),
		}, nil
	}

	if len(errs) == 0 {
		s.logger.Warn("Dispatch: student=%s has no reachable channel", credit.StudentID)
		return domain.DispatchResult{}, fmt.Errorf("%w: %v", ErrDispatchFailure, ErrNoChannel)
	}
	return domain.DispatchResult{}, fmt.Errorf("%w: %v", ErrDispatchFailure, errors.Join(errs...))
}

func (s *Service) send(ctx context.Context, channel domain.Channel, contact *domain.StudentContact, subject, body string) (string, error) {
	switch channel {
	case domain.ChannelEmail:
		if s.channels.Email == nil || contact.Email == "" {
			return "", ErrNoChannel
		}
		return s.channels.Email.SendEmail(ctx, contact.FirstName, contact.Email, subject, body)
	case domain.ChannelSMS:
		if s.channels.SMS == nil || contact.Phone == "" {
			return "", ErrNoChannel
		}
		return s.channels.SMS.SendSMS(ctx, contact.Phone, subject+"\n"+body)
	case domain.ChannelTelegram:
		if s.channels.Telegram == nil || contact.TelegramChatID == 0 {
			return "", ErrNoChannel
		}
		return s.channels.Telegram.SendTelegram(ctx, contact.TelegramChatID, subject+"\n\n"+body)
	default:
		return "", ErrNoChannel
	}
}

func (s *Service) location(ctx context.Context, credit *domain.MakeupCredit) *time.Location {
	if s.configs == nil {
		return time.UTC
	}
	config, err := s.configs.Resolve(ctx, credit.TenantID, credit.Category)
	if err != nil {
		s.logger.Warn("Dispatch: failed to resolve timezone of tenant=%s, using UTC: %v", credit.TenantID, err)
		return time.UTC
	}
	return config.Location()
}

// channelOrder предпочтительный канал, затем email
func channelOrder(preferred domain.Channel) []domain.Channel {
	switch preferred {
	case domain.ChannelSMS, domain.ChannelTelegram:
		return []domain.Channel{preferred, domain.ChannelEmail}
	default:
		return []domain.Channel{domain.ChannelEmail}
	}
}
