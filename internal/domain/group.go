package domain

import (
	"time"

	"github.com/google/uuid"
)

// GroupSessionStatus status of a group makeup session
type GroupSessionStatus string

const (
	GroupSessionOpen      GroupSessionStatus = "open"
	GroupSessionFull      GroupSessionStatus = "full"
	GroupSessionCancelled GroupSessionStatus = "cancelled"
)

// ParticipantState answer of an invited student
type ParticipantState string

const (
	ParticipantInvited  ParticipantState = "invited"
	ParticipantAccepted ParticipantState = "accepted"
	ParticipantDeclined ParticipantState = "declined"
)

// GroupSession a makeup lesson shared by several students
// Each participant consumes its own credit; group state never lives inside MakeupCredit
type GroupSession struct {
	ID           uuid.UUID
	TenantID     string
	Category     string
	LessonID     string
	StartsAt     time.Time
	Capacity     int
	Status       GroupSessionStatus
	CreatedBy    string
	Participants []GroupParticipant
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GroupParticipant an invited credit and its answer
type GroupParticipant struct {
	CreditID    uuid.UUID
	StudentID   string
	State       ParticipantState
	RespondedAt *time.Time
}

// AcceptedCount number of participants who accepted
func (g *GroupSession) AcceptedCount() int {
	count := 0
	for _, p := range g.Participants {
		if p.State == ParticipantAccepted {
			count++
		}
	}
	return count
}

// Participant finds a participant by credit id
func (g *GroupSession) Participant(creditID uuid.UUID) (*GroupParticipant, bool) {
	for i := range g.Participants {
		if g.Participants[i].CreditID == creditID {
			return &g.Participants[i], true
		}
	}
	return nil, false
}

// IsOpen returns true while answers are accepted
func (g *GroupSession) IsOpen() bool {
	return g.Status == GroupSessionOpen
}

// Clone returns a deep copy
func (g *GroupSession) Clone() *GroupSession {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Participants = make([]GroupParticipant, len(g.Participants))
	for i, p := range g.Participants {
		cp.Participants[i] = p
		cp.Participants[i].RespondedAt = cloneTime(p.RespondedAt)
	}
	return &cp
}
