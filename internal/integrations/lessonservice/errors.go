package lessonservice

import "errors"

var (
	// ErrLessonNotFound возвращается, когда урок не найден
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrSlotTaken возвращается, когда слот занят к моменту создания урока
	ErrSlotTaken = errors.New("lesson slot already taken")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("lessonservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("lessonservice client: invalid response")
)
