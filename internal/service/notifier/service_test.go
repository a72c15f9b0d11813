package notifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/notifier"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
)

type stubDirectory struct {
	contact *domain.StudentContact
	err     error
}

func (d *stubDirectory) GetContact(_ context.Context, _, _ string) (*domain.StudentContact, error) {
	return d.contact, d.err
}

type sent struct {
	channel string
	to      string
	text    string
}

type recorder struct {
	mu       sync.Mutex
	messages []sent
	fail     map[string]bool
}

func (r *recorder) record(channel, to, text string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[channel] {
		return "", errors.New(channel + " down")
	}
	r.messages = append(r.messages, sent{channel: channel, to: to, text: text})
	return channel + "-id", nil
}

func (r *recorder) SendEmail(_ context.Context, _, to, subject, body string) (string, error) {
	return r.record("email", to, subject+"\n"+body)
}

func (r *recorder) SendSMS(_ context.Context, to, body string) (string, error) {
	return r.record("sms", to, body)
}

func (r *recorder) SendTelegram(_ context.Context, chatID int64, text string) (string, error) {
	return r.record("telegram", "chat", text)
}

func testCredit() *domain.MakeupCredit {
	created := time.Date(2025, time.March, 1, 23, 30, 0, 0, time.UTC)
	return &domain.MakeupCredit{
		ID:        uuid.New(),
		TenantID:  "tenant-1",
		StudentID: "student-1",
		Category:  "B",
		Status:    domain.CreditStatusAvailable,
		CreatedAt: created,
		ExpiresAt: created.AddDate(0, 0, 30),
	}
}

func newService(t *testing.T, contact *domain.StudentContact, rec *recorder) *notifier.Service {
	t.Helper()
	svc, err := notifier.NewService(
		&stubDirectory{contact: contact},
		nil,
		notifier.Channels{Email: rec, SMS: rec, Telegram: rec},
		logger.NewNop(),
	)
	require.NoError(t, err)
	return svc
}

func TestSendReminder_LocalizedEmail(t *testing.T) {
	rec := &recorder{}
	svc := newService(t, &domain.StudentContact{FirstName: "Jonas", Email: "jonas@example.ch", Locale: "de-CH"}, rec)

	result, err := svc.SendReminder(context.Background(), testCredit(), 3)

	require.NoError(t, err)
	assert.Equal(t, domain.ChannelEmail, result.Channel)
	assert.Equal(t, "email-id", result.MessageID)
	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0].text, "Hallo Jonas")
	assert.Contains(t, rec.messages[0].text, "noch 3 Tage")
	assert.Contains(t, rec.messages[0].text, "31.03.2025")
}

func TestSendReminder_UnknownLocaleFallsBackToFrench(t *testing.T) {
	rec := &recorder{}
	svc := newService(t, &domain.StudentContact{FirstName: "Ana", Email: "ana@example.ch", Locale: "pt"}, rec)

	_, err := svc.SendReminder(context.Background(), testCredit(), 1)

	require.NoError(t, err)
	assert.Contains(t, rec.messages[0].text, "Il vous reste 1 jour pour")
}

func TestDispatch_PreferredChannelWithEmailFallback(t *testing.T) {
	contact := &domain.StudentContact{
		FirstName: "Léa", Email: "lea@example.ch", Phone: "+41790000000",
		PreferredChannel: domain.ChannelSMS, Locale: "fr",
	}

	rec := &recorder{}
	result, err := newService(t, contact, rec).SendAvailable(context.Background(), testCredit())
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelSMS, result.Channel)

	rec = &recorder{fail: map[string]bool{"sms": true}}
	result, err = newService(t, contact, rec).SendAvailable(context.Background(), testCredit())
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelEmail, result.Channel)
}

func TestDispatch_AllChannelsFail(t *testing.T) {
	rec := &recorder{fail: map[string]bool{"email": true}}
	svc := newService(t, &domain.StudentContact{FirstName: "Léa", Email: "lea@example.ch"}, rec)

	_, err := svc.SendRejected(context.Background(), testCredit(), "pas de certificat")

	assert.ErrorIs(t, err, notifier.ErrDispatchFailure)
}

func TestDispatch_NoReachableChannel(t *testing.T) {
	rec := &recorder{}
	svc := newService(t, &domain.StudentContact{FirstName: "Léa", PreferredChannel: domain.ChannelTelegram}, rec)

	_, err := svc.SendAvailable(context.Background(), testCredit())

	assert.ErrorIs(t, err, notifier.ErrDispatchFailure)
	assert.Empty(t, rec.messages)
}

func TestDispatch_ContactLookupFails(t *testing.T) {
	svc, err := notifier.NewService(&stubDirectory{err: errors.New("timeout")}, nil, notifier.Channels{}, logger.NewNop())
	require.NoError(t, err)

	_, err = svc.SendReminder(context.Background(), testCredit(), 7)
	assert.ErrorIs(t, err, notifier.ErrDispatchFailure)
}

func TestSendRejected_IncludesReason(t *testing.T) {
	rec := &recorder{}
	svc := newService(t, &domain.StudentContact{FirstName: "Marco", Email: "m@example.ch", Locale: "it"}, rec)

	_, err := svc.SendRejected(context.Background(), testCredit(), "certificato mancante")

	require.NoError(t, err)
	assert.Contains(t, rec.messages[0].text, "Motivo: certificato mancante")
}
