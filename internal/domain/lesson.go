package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotRequest a lesson slot a student wants to book a credit into
type SlotRequest struct {
	TenantID        string
	StudentID       string
	InstructorID    string
	VehicleID       *string
	Category        string
	StartTime       time.Time
	DurationMinutes int
	MeetingPoint    *string
}

// EndTime returns the end of the requested slot
func (s SlotRequest) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Lesson a lesson record owned by the external lesson service
type Lesson struct {
	ID              string
	TenantID        string
	StudentID       string
	InstructorID    string
	Category        string
	StartTime       time.Time
	DurationMinutes int
	Status          string
	MakeupCreditID  *uuid.UUID
}

// LessonUpdateType kind of lesson update
type LessonUpdateType string

const (
	LessonUpdateCompleted LessonUpdateType = "lesson_completed"
	LessonUpdateCancelled LessonUpdateType = "lesson_cancelled"
	LessonUpdateScheduled LessonUpdateType = "lesson_scheduled"
)

// LessonUpdate message pushed by the lesson service when a lesson changes
type LessonUpdate struct {
	Type      LessonUpdateType
	LessonID  string
	Status    string
	Timestamp time.Time
}

// CancellationEvent emitted when a regular lesson gets cancelled
type CancellationEvent struct {
	TenantID      string
	LessonID      string
	StudentID     string
	Category      string
	Reason        CancellationReason
	ReasonDetails *string
	CancelledAt   time.Time
}
