package group

import "errors"

var (
	// ErrSessionNotFound возвращается, когда групповое занятие не найдено
	ErrSessionNotFound = errors.New("group session not found")

	// ErrSessionClosed возвращается, когда занятие заполнено или отменено
	ErrSessionClosed = errors.New("group session is not open")

	// ErrNotInvited возвращается, когда кредит не приглашен на занятие
	ErrNotInvited = errors.New("credit is not invited to this session")

	// ErrAlreadyResponded возвращается при повторном ответе на приглашение
	ErrAlreadyResponded = errors.New("invitation already answered")

	// ErrCreditNotAvailable возвращается, когда кредит нельзя использовать для занятия
	ErrCreditNotAvailable = errors.New("credit is not available for the session")

	// ErrStaleVersion возвращается, когда занятие было изменено параллельно
	ErrStaleVersion = errors.New("group session modified concurrently")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
