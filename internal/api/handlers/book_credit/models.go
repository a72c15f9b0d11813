package book_credit

import (
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
	bookCredit "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/book_credit"
)

// BookCreditRequest HTTP request model
type BookCreditRequest struct {
	InstructorID    string    `json:"instructorId" validate:"notblank"`
	VehicleID       *string   `json:"vehicleId,omitempty"`
	StartTime       time.Time `json:"startTime" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"min=15,max=240"`
	MeetingPoint    *string   `json:"meetingPoint,omitempty" validate:"omitempty,max=255"`
}

// LessonResponse созданный урок
type LessonResponse struct {
	ID              string    `json:"id"`
	InstructorID    string    `json:"instructorId"`
	Category        string    `json:"category"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
}

// BookCreditResponse HTTP response model
type BookCreditResponse struct {
	Lesson LessonResponse         `json:"lesson"`
	Credit *ledger.CreditResponse `json:"credit"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *BookCreditRequest) ToUseCaseRequest(creditID uuid.UUID, actor domain.Actor, tenantID string) *bookCredit.Request {
	return &bookCredit.Request{
		CreditID:        creditID,
		Actor:           actor,
		TenantID:        tenantID,
		InstructorID:    r.InstructorID,
		VehicleID:       r.VehicleID,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		MeetingPoint:    r.MeetingPoint,
	}
}

// FromUseCaseResponse конвертирует результат use case в HTTP response
func FromUseCaseResponse(resp *bookCredit.Response, now time.Time) *BookCreditResponse {
	return &BookCreditResponse{
		Lesson: LessonResponse{
			ID:              resp.Lesson.ID,
			InstructorID:    resp.Lesson.InstructorID,
			Category:        resp.Lesson.Category,
			StartTime:       resp.Lesson.StartTime,
			DurationMinutes: resp.Lesson.DurationMinutes,
			Status:          resp.Lesson.Status,
		},
		Credit: ledger.FromDomainCredit(resp.Credit, now),
	}
}
