package ledger

import (
	"fmt"
	"strings"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// validateEvent проверяет обязательные поля события отмены
func validateEvent(event domain.CancellationEvent) error {
	if strings.TrimSpace(event.TenantID) == "" {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(event.LessonID) == "" {
		return fmt.Errorf("%w: lessonId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(event.StudentID) == "" {
		return fmt.Errorf("%w: studentId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(event.Category) == "" || event.Category == domain.CategoryAll {
		return fmt.Errorf("%w: a concrete licence category is required", ErrInvalidInput)
	}
	if event.CancelledAt.IsZero() {
		return fmt.Errorf("%w: cancelledAt is required", ErrInvalidInput)
	}
	if event.ReasonDetails != nil && len(*event.ReasonDetails) > domain.MaxReasonDetailsLength {
		return fmt.Errorf("%w: reasonDetails exceeds %d characters", ErrInvalidInput, domain.MaxReasonDetailsLength)
	}
	return nil
}
