package group

import "errors"

var (
	// ErrSessionNotFound возвращается, когда групповое занятие не найдено
	ErrSessionNotFound = errors.New("group.repository: session not found")

	// ErrStaleVersion возвращается, когда занятие было изменено параллельно
	ErrStaleVersion = errors.New("group.repository: stale session version")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("group.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("group.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("group.repository: failed to scan row")
)
