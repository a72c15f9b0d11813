package studentservice

import "errors"

var (
	// ErrStudentNotFound возвращается, когда студент не найден в автошколе
	ErrStudentNotFound = errors.New("student not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("studentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("studentservice client: invalid response")
)
