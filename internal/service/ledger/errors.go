package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrIneligibleReason возвращается, когда причина отмены не дает права на отработку
	ErrIneligibleReason = errors.New("cancellation reason not eligible")

	// ErrCancellationTooLate возвращается, когда отмена зарегистрирована позже maxDaysFromCancellation
	ErrCancellationTooLate = fmt.Errorf("%w: cancellation window exceeded", ErrIneligibleReason)

	// ErrAlreadyIssued возвращается вместе с кредитом, уже выпущенным за этот урок
	ErrAlreadyIssued = errors.New("credit already issued for lesson")

	// ErrCreditConflict возвращается, когда у студента уже есть активный кредит, а несколько запрещено
	ErrCreditConflict = errors.New("student already holds an active credit")

	// ErrInvalidTransition возвращается при недопустимом переходе или неподходящем инициаторе
	ErrInvalidTransition = errors.New("invalid credit transition")

	// ErrStaleVersion возвращается, когда кредит был изменен параллельно
	ErrStaleVersion = errors.New("credit modified concurrently")

	// ErrExpiryDeferred возвращается, когда истечение забронированного кредита ждет итога урока
	ErrExpiryDeferred = errors.New("expiry deferred until booked lesson outcome")

	// ErrCreditNotFound возвращается, когда кредит не найден
	ErrCreditNotFound = errors.New("credit not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
