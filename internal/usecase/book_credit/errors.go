package book_credit

import "errors"

var (
	// ErrCreditNotFound возвращается, когда кредит не найден
	ErrCreditNotFound = errors.New("book_credit: credit not found")

	// ErrCreditNotAvailable возвращается, когда кредит не в статусе available или истек
	ErrCreditNotAvailable = errors.New("book_credit: credit is not available for booking")

	// ErrAccessDenied возвращается, когда студент пытается использовать чужой кредит
	ErrAccessDenied = errors.New("book_credit: access denied")

	// ErrLeadTimeViolation возвращается, когда урок начинается раньше minBookingLeadHours
	ErrLeadTimeViolation = errors.New("book_credit: lesson starts too soon")

	// ErrSlotNotAvailable возвращается, когда инструктор или автомобиль заняты
	ErrSlotNotAvailable = errors.New("book_credit: slot is not available")

	// ErrAvailabilityTimeout возвращается, когда проверка доступности не уложилась в таймаут
	ErrAvailabilityTimeout = errors.New("book_credit: availability check timed out")

	// ErrCreditConsumed возвращается, когда кредит был использован параллельно и урок отменен
	ErrCreditConsumed = errors.New("book_credit: credit consumed concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_credit: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_credit: internal error")
)
