package group_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/memory"
	configsvc "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/group"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/metrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/txmanager"
)

var (
	admin = domain.Actor{Kind: domain.ActorAdmin, ID: "admin-1"}
	start = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	ledger *ledger.Service
	groups *group.Service
}

func newFixture() *fixture {
	clock := fixedClock{now: start}
	configs := configsvc.NewService(memory.NewConfigRepository(), logger.NewNop())
	ledgerSvc := ledger.NewService(memory.NewCreditRepository(), configs, txmanager.Nop{}, metrics.Nop{}, logger.NewNop()).
		WithTimeProvider(clock)
	groups := group.NewService(memory.NewGroupRepository(), ledgerSvc, logger.NewNop()).WithTimeProvider(clock)
	return &fixture{ledger: ledgerSvc, groups: groups}
}

func (f *fixture) issue(t *testing.T, studentID string) *domain.MakeupCredit {
	t.Helper()
	credit, err := f.ledger.CreateCredit(context.Background(), domain.CancellationEvent{
		TenantID:    "tenant-1",
		LessonID:    "lesson-" + studentID,
		StudentID:   studentID,
		Category:    "B",
		Reason:      domain.ReasonWeatherConditions,
		CancelledAt: start.Add(-time.Hour),
	}, domain.DefaultMakeupConfig("tenant-1"))
	require.NoError(t, err)
	return credit
}

func (f *fixture) session(t *testing.T, capacity int, credits ...*domain.MakeupCredit) *domain.GroupSession {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(credits))
	for _, c := range credits {
		ids = append(ids, c.ID)
	}
	session, err := f.groups.Create(context.Background(), &group.CreateRequest{
		Actor:     admin,
		TenantID:  "tenant-1",
		Category:  "B",
		LessonID:  "group-lesson-1",
		StartsAt:  start.Add(72 * time.Hour),
		Capacity:  capacity,
		CreditIDs: ids,
	})
	require.NoError(t, err)
	return session
}

func studentOf(c *domain.MakeupCredit) domain.Actor {
	return domain.Actor{Kind: domain.ActorStudent, ID: c.StudentID}
}

func TestRespond_AcceptBooksCreditAndFillsSession(t *testing.T) {
	// GIVEN: two invited students for a session of two
	f := newFixture()
	ctx := context.Background()
	first, second := f.issue(t, "student-1"), f.issue(t, "student-2")
	session := f.session(t, 2, first, second)

	// WHEN: both accept
	_, err := f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: first.ID, Actor: studentOf(first), Accept: true})
	require.NoError(t, err)
	updated, err := f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: second.ID, Actor: studentOf(second), Accept: true})
	require.NoError(t, err)

	// THEN
	assert.Equal(t, domain.GroupSessionFull, updated.Status)
	assert.Equal(t, 2, updated.AcceptedCount())
	for _, c := range []*domain.MakeupCredit{first, second} {
		stored, err := f.ledger.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CreditStatusBooked, stored.Status)
		assert.Equal(t, "group-lesson-1", *stored.UsedLessonID)
	}
}

func TestRespond_DeclineLeavesCreditUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	credit := f.issue(t, "student-1")
	session := f.session(t, 1, credit)

	updated, err := f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: credit.ID, Actor: studentOf(credit)})
	require.NoError(t, err)

	p, ok := updated.Participant(credit.ID)
	require.True(t, ok)
	assert.Equal(t, domain.ParticipantDeclined, p.State)
	assert.Equal(t, domain.GroupSessionOpen, updated.Status)

	stored, err := f.ledger.Get(ctx, credit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusAvailable, stored.Status)
	assert.Equal(t, credit.Version, stored.Version)

	_, err = f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: credit.ID, Actor: studentOf(credit), Accept: true})
	assert.ErrorIs(t, err, group.ErrAlreadyResponded)
}

func TestRespond_FullSessionIsClosed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first, second := f.issue(t, "student-1"), f.issue(t, "student-2")
	session := f.session(t, 1, first, second)

	_, err := f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: first.ID, Actor: studentOf(first), Accept: true})
	require.NoError(t, err)
	_, err = f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: second.ID, Actor: studentOf(second), Accept: true})

	assert.ErrorIs(t, err, group.ErrSessionClosed)
	stored, err := f.ledger.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusAvailable, stored.Status)
}

func TestRespond_StudentAnswersOnlyOwnInvitation(t *testing.T) {
	f := newFixture()
	first, second := f.issue(t, "student-1"), f.issue(t, "student-2")
	session := f.session(t, 2, first, second)

	_, err := f.groups.Respond(context.Background(), &group.RespondRequest{
		SessionID: session.ID, CreditID: first.ID, Actor: studentOf(second), Accept: true,
	})

	assert.ErrorIs(t, err, group.ErrAccessDenied)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	credit := f.issue(t, "student-1")

	tests := []struct {
		name string
		req  group.CreateRequest
		err  error
	}{
		{"student cannot create", group.CreateRequest{Actor: studentOf(credit)}, group.ErrAccessDenied},
		{"zero capacity", group.CreateRequest{Actor: admin, TenantID: "tenant-1", Category: "B", LessonID: "l", Capacity: 0, CreditIDs: []uuid.UUID{credit.ID}}, group.ErrInvalidInput},
		{"duplicate invitation", group.CreateRequest{Actor: admin, TenantID: "tenant-1", Category: "B", LessonID: "l", Capacity: 2, StartsAt: start.Add(time.Hour), CreditIDs: []uuid.UUID{credit.ID, credit.ID}}, group.ErrInvalidInput},
		{"other category", group.CreateRequest{Actor: admin, TenantID: "tenant-1", Category: "A", LessonID: "l", Capacity: 1, StartsAt: start.Add(time.Hour), CreditIDs: []uuid.UUID{credit.ID}}, group.ErrCreditNotAvailable},
		{"unknown credit", group.CreateRequest{Actor: admin, TenantID: "tenant-1", Category: "B", LessonID: "l", Capacity: 1, StartsAt: start.Add(time.Hour), CreditIDs: []uuid.UUID{uuid.New()}}, group.ErrCreditNotAvailable},
		{"past start", group.CreateRequest{Actor: admin, TenantID: "tenant-1", Category: "B", LessonID: "l", Capacity: 1, StartsAt: start.Add(-time.Hour), CreditIDs: []uuid.UUID{credit.ID}}, group.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.groups.Create(context.Background(), &req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCancel_ReopensAcceptedCredits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first, second := f.issue(t, "student-1"), f.issue(t, "student-2")
	session := f.session(t, 2, first, second)
	_, err := f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: first.ID, Actor: studentOf(first), Accept: true})
	require.NoError(t, err)

	cancelled, err := f.groups.Cancel(ctx, admin, "tenant-1", session.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.GroupSessionCancelled, cancelled.Status)
	stored, err := f.ledger.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusAvailable, stored.Status)
	assert.Equal(t, first.ExpiresAt, stored.ExpiresAt)

	_, err = f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: second.ID, Actor: studentOf(second), Accept: true})
	assert.ErrorIs(t, err, group.ErrSessionClosed)
}

func TestCancel_KeepsCreditRebookedElsewhere(t *testing.T) {
	// GIVEN: an accepted credit that was re-opened by a cancelled group lesson
	// and then booked onto an individual lesson
	f := newFixture()
	ctx := context.Background()
	credit := f.issue(t, "student-1")
	session := f.session(t, 2, credit)
	_, err := f.groups.Respond(ctx, &group.RespondRequest{SessionID: session.ID, CreditID: credit.ID, Actor: studentOf(credit), Accept: true})
	require.NoError(t, err)

	_, err = f.ledger.Transition(ctx, ledger.TransitionRequest{
		CreditID: credit.ID,
		Target:   domain.CreditStatusAvailable,
		Actor:    domain.SystemActor,
	})
	require.NoError(t, err)
	bookedFor := start.Add(96 * time.Hour)
	rebooked, err := f.ledger.Transition(ctx, ledger.TransitionRequest{
		CreditID: credit.ID,
		Target:   domain.CreditStatusBooked,
		Actor:    studentOf(credit),
		Metadata: ledger.TransitionMetadata{UsedLessonID: "individual-lesson", BookedFor: &bookedFor},
	})
	require.NoError(t, err)

	// WHEN
	_, err = f.groups.Cancel(ctx, admin, "tenant-1", session.ID)
	require.NoError(t, err)

	// THEN: the individual booking survives
	stored, err := f.ledger.Get(ctx, credit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusBooked, stored.Status)
	require.NotNil(t, stored.UsedLessonID)
	assert.Equal(t, "individual-lesson", *stored.UsedLessonID)
	assert.Equal(t, rebooked.Version, stored.Version)
}

func TestGet_OtherTenant(t *testing.T) {
	f := newFixture()
	credit := f.issue(t, "student-1")
	session := f.session(t, 1, credit)

	_, err := f.groups.Get(context.Background(), "tenant-2", session.ID)

	assert.ErrorIs(t, err, group.ErrSessionNotFound)
}
