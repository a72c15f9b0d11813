package expiry

import (
	"errors"
	"time"
)

// ErrTickInProgress возвращается, когда предыдущий тик еще не завершился
var ErrTickInProgress = errors.New("expiry scheduler: tick already in progress")

// Config параметры планировщика
type Config struct {
	Interval  time.Duration // период тиков
	Workers   int           // параллельная обработка кредитов
	BatchSize int           // размер страницы при выборке
}

// TickReport итог одного тика
type TickReport struct {
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"duration"`
	Scanned         int           `json:"scanned"`
	RemindersSent   int           `json:"remindersSent"`
	RemindersFailed int           `json:"remindersFailed"`
	Expired         int           `json:"expired"`
	Deferred        int           `json:"deferred"`
	Errors          int           `json:"errors"`
}
