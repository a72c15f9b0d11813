package domain

import "time"

// Channel delivery channel of a notification
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelTelegram Channel = "telegram"
	ChannelConsole  Channel = "console"
)

// NotificationKind what the student is notified about
type NotificationKind string

const (
	NotificationReminder  NotificationKind = "reminder"
	NotificationAvailable NotificationKind = "available"
	NotificationRejected  NotificationKind = "rejected"
)

// DispatchResult acknowledgment of a successful send
type DispatchResult struct {
	Channel   Channel
	MessageID string
	SentAt    time.Time
}

// StudentContact how a student can be reached
type StudentContact struct {
	StudentID        string
	FirstName        string
	Email            string
	Phone            string
	TelegramChatID   int64
	PreferredChannel Channel
	Locale           string
}
