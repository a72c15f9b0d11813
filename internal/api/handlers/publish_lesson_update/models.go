package publish_lesson_update

import (
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// LessonUpdateRequest HTTP request model
type LessonUpdateRequest struct {
	Type      string    `json:"type" validate:"oneof=lesson_completed lesson_cancelled lesson_scheduled"`
	LessonID  string    `json:"lessonId" validate:"notblank"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ToDomain конвертирует запрос в изменение урока
func (r *LessonUpdateRequest) ToDomain(now time.Time) domain.LessonUpdate {
	ts := r.Timestamp.UTC()
	if r.Timestamp.IsZero() {
		ts = now
	}
	return domain.LessonUpdate{
		Type:      domain.LessonUpdateType(r.Type),
		LessonID:  r.LessonID,
		Status:    r.Status,
		Timestamp: ts,
	}
}
