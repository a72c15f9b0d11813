package credit

import "errors"

var (
	// ErrCreditNotFound возвращается, когда кредит не найден
	ErrCreditNotFound = errors.New("credit.repository: credit not found")

	// ErrDuplicateLesson возвращается, когда для урока уже выпущен кредит
	ErrDuplicateLesson = errors.New("credit.repository: credit already issued for lesson")

	// ErrStaleVersion возвращается, когда кредит был изменен параллельно
	ErrStaleVersion = errors.New("credit.repository: stale credit version")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("credit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("credit.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("credit.repository: failed to scan row")
)
