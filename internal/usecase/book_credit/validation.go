package book_credit

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

const maxLessonDurationMinutes = 240

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if !req.Actor.Kind.IsValid() || strings.TrimSpace(req.Actor.ID) == "" {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.InstructorID) == "" {
		return fmt.Errorf("%w: instructorId is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 || req.DurationMinutes > maxLessonDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, maxLessonDurationMinutes)
	}
	return nil
}

// validateOwnership студент может бронировать только свои кредиты
func validateOwnership(req *Request, credit *domain.MakeupCredit) error {
	if req.TenantID != "" && req.TenantID != credit.TenantID {
		return ErrCreditNotFound
	}
	if req.Actor.Kind == domain.ActorStudent && req.Actor.ID != credit.StudentID {
		return ErrAccessDenied
	}
	return nil
}

// validateLeadTime урок должен начинаться не раньше чем через minBookingLeadHours
func validateLeadTime(start, now time.Time, config *domain.MakeupConfig) error {
	if start.Sub(now) < config.BookingLead() {
		return fmt.Errorf("%w: at least %d hours in advance", ErrLeadTimeViolation, config.MinBookingLeadHours)
	}
	return nil
}

func slotFor(req *Request, credit *domain.MakeupCredit) domain.SlotRequest {
	return domain.SlotRequest{
		TenantID:        credit.TenantID,
		StudentID:       credit.StudentID,
		InstructorID:    req.InstructorID,
		VehicleID:       req.VehicleID,
		Category:        credit.Category,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		MeetingPoint:    req.MeetingPoint,
	}
}
