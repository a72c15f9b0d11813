package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// CreditStatus represents the lifecycle status of a makeup credit
type CreditStatus string

const (
	CreditStatusPending   CreditStatus = "pending"
	CreditStatusAvailable CreditStatus = "available"
	CreditStatusBooked    CreditStatus = "booked"
	CreditStatusUsed      CreditStatus = "used"
	CreditStatusExpired   CreditStatus = "expired"
	CreditStatusCancelled CreditStatus = "cancelled"
)

// IsTerminal returns true if no transition is permitted from this status
func (s CreditStatus) IsTerminal() bool {
	return s == CreditStatusUsed || s == CreditStatusExpired || s == CreditStatusCancelled
}

// IsValid returns true for known statuses
func (s CreditStatus) IsValid() bool {
	switch s {
	case CreditStatusPending, CreditStatusAvailable, CreditStatusBooked,
		CreditStatusUsed, CreditStatusExpired, CreditStatusCancelled:
		return true
	}
	return false
}

// MakeupCredit is an entitlement to a free replacement lesson
// issued after an eligible lesson cancellation
type MakeupCredit struct {
	ID               uuid.UUID
	TenantID         string
	StudentID        string
	OriginalLessonID string
	Category         string
	Reason           CancellationReason
	ReasonDetails    *string

	Status    CreditStatus
	CreatedAt time.Time
	ExpiresAt time.Time

	UsedAt       *time.Time
	UsedLessonID *string
	BookedFor    *time.Time // start of the booked lesson

	RemindersSent []int // offsets (days before expiry) already dispatched

	ValidatedBy  *string
	ValidatedAt  *time.Time
	CancelledBy  *string
	CancelReason *string

	Version   int64
	UpdatedAt time.Time
}

// IsTerminal returns true if the credit reached a final status
func (c *MakeupCredit) IsTerminal() bool {
	return c.Status.IsTerminal()
}

// IsExpiryReached returns true once the validity window is over
func (c *MakeupCredit) IsExpiryReached(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// DaysRemaining returns ceil((expiresAt - now) / 1 day)
// Zero or negative once the credit is past its expiry
func (c *MakeupCredit) DaysRemaining(now time.Time) int {
	return int(math.Ceil(c.ExpiresAt.Sub(now).Hours() / 24))
}

// HasReminder returns true if the reminder for the given offset was already sent
func (c *MakeupCredit) HasReminder(offset int) bool {
	for _, sent := range c.RemindersSent {
		if sent == offset {
			return true
		}
	}
	return false
}

// CanBeBooked returns true if the credit can be consumed by a booking at the given time
func (c *MakeupCredit) CanBeBooked(now time.Time) bool {
	return c.Status == CreditStatusAvailable && !c.IsExpiryReached(now)
}

// Clone returns a deep copy so callers never share mutable state
func (c *MakeupCredit) Clone() *MakeupCredit {
	if c == nil {
		return nil
	}

	cp := *c
	cp.ReasonDetails = cloneString(c.ReasonDetails)
	cp.UsedAt = cloneTime(c.UsedAt)
	cp.UsedLessonID = cloneString(c.UsedLessonID)
	cp.BookedFor = cloneTime(c.BookedFor)
	cp.ValidatedBy = cloneString(c.ValidatedBy)
	cp.ValidatedAt = cloneTime(c.ValidatedAt)
	cp.CancelledBy = cloneString(c.CancelledBy)
	cp.CancelReason = cloneString(c.CancelReason)
	if c.RemindersSent != nil {
		cp.RemindersSent = append([]int(nil), c.RemindersSent...)
	}
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// CreditFilter filters for credit queries, all fields optional except TenantID
type CreditFilter struct {
	TenantID     string
	StudentID    *string
	Category     *string
	Statuses     []CreditStatus
	ExpiresFrom  *time.Time // inclusive
	ExpiresTo    *time.Time // exclusive
	UsedLessonID *string
	Limit        int
	Offset       int
}

// NonTerminalStatuses statuses the expiry scheduler has to look at
var NonTerminalStatuses = []CreditStatus{
	CreditStatusPending,
	CreditStatusAvailable,
	CreditStatusBooked,
}

// TerminalStatuses final statuses
var TerminalStatuses = []CreditStatus{
	CreditStatusUsed,
	CreditStatusExpired,
	CreditStatusCancelled,
}
