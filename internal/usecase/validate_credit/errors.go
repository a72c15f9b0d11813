package validate_credit

import "errors"

var (
	// ErrCreditNotFound возвращается, когда кредит не найден
	ErrCreditNotFound = errors.New("validate_credit: credit not found")

	// ErrNotPending возвращается, когда кредит уже не ожидает проверки
	ErrNotPending = errors.New("validate_credit: credit is not pending validation")

	// ErrAccessDenied возвращается, когда решение принимает не администратор
	ErrAccessDenied = errors.New("validate_credit: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_credit: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_credit: internal error")
)
