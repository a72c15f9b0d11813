package studentservice

import "github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"

// Contact контактные данные студента из StudentService
type Contact struct {
	StudentID        string `json:"student_id"`
	FirstName        string `json:"first_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	TelegramChatID   int64  `json:"telegram_chat_id"`
	PreferredChannel string `json:"preferred_channel"`
	Locale           string `json:"locale"`
}

// ToDomain конвертирует ответ сервиса в доменную модель
func (c *Contact) ToDomain() *domain.StudentContact {
	return &domain.StudentContact{
		StudentID:        c.StudentID,
		FirstName:        c.FirstName,
		Email:            c.Email,
		Phone:            c.Phone,
		TelegramChatID:   c.TelegramChatID,
		PreferredChannel: domain.Channel(c.PreferredChannel),
		Locale:           c.Locale,
	}
}

// ErrorResponse модель ошибки от StudentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
