package book_credit

import (
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// Request модель запроса на бронирование урока по кредиту
type Request struct {
	CreditID        uuid.UUID    // ID кредита отработки
	Actor           domain.Actor // кто бронирует
	TenantID        string       // автошкола инициатора
	InstructorID    string       // инструктор
	VehicleID       *string      // автомобиль (опционально)
	StartTime       time.Time    // начало урока
	DurationMinutes int          // длительность урока
	MeetingPoint    *string      // место встречи (опционально)
}

// Response модель ответа с забронированным уроком
type Response struct {
	Lesson *domain.Lesson
	Credit *domain.MakeupCredit
}

// Options параметры координатора бронирования
type Options struct {
	AvailabilityTimeout time.Duration // таймаут проверки доступности
	RetryBase           time.Duration // начальная задержка повтора перехода в booked
	MaxRetries          uint64        // сколько раз повторять переход
}

// DefaultOptions значения по умолчанию
func DefaultOptions() Options {
	return Options{
		AvailabilityTimeout: 5 * time.Second,
		RetryBase:           50 * time.Millisecond,
		MaxRetries:          3,
	}
}
