package issue_credit

import "errors"

var (
	// ErrNotEligible возвращается, когда отмена не дает права на отработку
	ErrNotEligible = errors.New("issue_credit: cancellation not eligible for a makeup credit")

	// ErrCreditConflict возвращается, когда у студента уже есть активный кредит
	ErrCreditConflict = errors.New("issue_credit: student already holds an active credit")

	// ErrInvalidInput возвращается при некорректном событии
	ErrInvalidInput = errors.New("issue_credit: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("issue_credit: internal error")
)
