package domain_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

var allStatuses = []domain.CreditStatus{
	domain.CreditStatusPending,
	domain.CreditStatusAvailable,
	domain.CreditStatusBooked,
	domain.CreditStatusUsed,
	domain.CreditStatusExpired,
	domain.CreditStatusCancelled,
}

func TestCanTransition_EdgeTable(t *testing.T) {
	tests := []struct {
		from  domain.CreditStatus
		to    domain.CreditStatus
		actor domain.ActorKind
		want  bool
	}{
		{domain.CreditStatusPending, domain.CreditStatusAvailable, domain.ActorAdmin, true},
		{domain.CreditStatusPending, domain.CreditStatusAvailable, domain.ActorStudent, false},
		{domain.CreditStatusPending, domain.CreditStatusAvailable, domain.ActorSystem, false},
		{domain.CreditStatusPending, domain.CreditStatusCancelled, domain.ActorAdmin, true},
		{domain.CreditStatusPending, domain.CreditStatusExpired, domain.ActorSystem, true},
		{domain.CreditStatusPending, domain.CreditStatusBooked, domain.ActorStudent, false},
		{domain.CreditStatusAvailable, domain.CreditStatusBooked, domain.ActorStudent, true},
		{domain.CreditStatusAvailable, domain.CreditStatusExpired, domain.ActorSystem, true},
		{domain.CreditStatusAvailable, domain.CreditStatusExpired, domain.ActorAdmin, false},
		{domain.CreditStatusAvailable, domain.CreditStatusCancelled, domain.ActorAdmin, true},
		{domain.CreditStatusAvailable, domain.CreditStatusUsed, domain.ActorSystem, false},
		{domain.CreditStatusBooked, domain.CreditStatusUsed, domain.ActorSystem, true},
		{domain.CreditStatusBooked, domain.CreditStatusAvailable, domain.ActorSystem, true},
		{domain.CreditStatusBooked, domain.CreditStatusExpired, domain.ActorSystem, true},
		{domain.CreditStatusBooked, domain.CreditStatusCancelled, domain.ActorAdmin, false},
		{domain.CreditStatusUsed, domain.CreditStatusAvailable, domain.ActorSystem, false},
		{domain.CreditStatusExpired, domain.CreditStatusAvailable, domain.ActorAdmin, false},
		{domain.CreditStatusCancelled, domain.CreditStatusPending, domain.ActorAdmin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to)+"/"+string(tt.actor), func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to, tt.actor))
		})
	}
}

func TestTerminalStatuses_HaveNoOutgoingEdges(t *testing.T) {
	for _, status := range domain.TerminalStatuses {
		assert.True(t, status.IsTerminal())
		assert.Empty(t, domain.NextStatuses(status), "terminal status %s must not have edges", status)
	}
	for _, status := range domain.NonTerminalStatuses {
		assert.False(t, status.IsTerminal())
		assert.NotEmpty(t, domain.NextStatuses(status))
	}
}

func TestStateMachine_RandomWalkNeverLeavesTerminal(t *testing.T) {
	// GIVEN: random sequences of requested transitions
	// WHEN: only permitted edges are applied
	// THEN: once a terminal state is reached nothing moves it again
	rng := rand.New(rand.NewSource(42))
	actors := []domain.ActorKind{domain.ActorSystem, domain.ActorAdmin, domain.ActorStudent}

	for walk := 0; walk < 500; walk++ {
		status := domain.CreditStatusPending
		if rng.Intn(2) == 0 {
			status = domain.CreditStatusAvailable
		}
		terminalSeen := false

		for step := 0; step < 20; step++ {
			target := allStatuses[rng.Intn(len(allStatuses))]
			actor := actors[rng.Intn(len(actors))]

			if !domain.CanTransition(status, target, actor) {
				continue
			}
			require.False(t, terminalSeen, "walk %d moved out of terminal status %s", walk, status)
			require.True(t, domain.IsEdge(status, target))
			status = target
			if status.IsTerminal() {
				terminalSeen = true
			}
		}
	}
}
