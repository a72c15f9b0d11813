package validate_credit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/memory"
	configsvc "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config/models"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/validate_credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/metrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/ptr"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/txmanager"
)

type fakeNotifier struct {
	mu        sync.Mutex
	available int
	rejected  []string
	err       error
}

func (n *fakeNotifier) SendAvailable(context.Context, *domain.MakeupCredit) (domain.DispatchResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return domain.DispatchResult{}, n.err
	}
	n.available++
	return domain.DispatchResult{Channel: domain.ChannelEmail}, nil
}

func (n *fakeNotifier) SendRejected(_ context.Context, _ *domain.MakeupCredit, reason string) (domain.DispatchResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return domain.DispatchResult{}, n.err
	}
	n.rejected = append(n.rejected, reason)
	return domain.DispatchResult{Channel: domain.ChannelEmail}, nil
}

type fixture struct {
	configs  *configsvc.Service
	ledger   *ledger.Service
	notifier *fakeNotifier
	usecase  *validate_credit.UseCase
}

func newFixture(t *testing.T, autoNotify bool) *fixture {
	t.Helper()
	configs := configsvc.NewService(memory.NewConfigRepository(), logger.NewNop())
	_, err := configs.Upsert(context.Background(), &models.UpsertConfigRequest{
		Actor:                   domain.Actor{Kind: domain.ActorAdmin, ID: "admin-1"},
		TenantID:                "tenant-1",
		RequiresAdminValidation: ptr.Ptr(true),
		AutoNotifyStudent:       ptr.Ptr(autoNotify),
	})
	require.NoError(t, err)

	ledgerSvc := ledger.NewService(memory.NewCreditRepository(), configs, txmanager.Nop{}, metrics.Nop{}, logger.NewNop())
	notifier := &fakeNotifier{}
	return &fixture{
		configs:  configs,
		ledger:   ledgerSvc,
		notifier: notifier,
		usecase:  validate_credit.NewUseCase(ledgerSvc, configs, notifier, logger.NewNop()),
	}
}

func (f *fixture) issue(t *testing.T, lessonID string) *domain.MakeupCredit {
	t.Helper()
	ctx := context.Background()
	config, err := f.configs.Resolve(ctx, "tenant-1", "B")
	require.NoError(t, err)

	credit, err := f.ledger.CreateCredit(ctx, domain.CancellationEvent{
		TenantID:    "tenant-1",
		LessonID:    lessonID,
		StudentID:   "student-1",
		Category:    "B",
		Reason:      domain.ReasonFamilyEmergency,
		CancelledAt: time.Now().UTC().Add(-time.Hour),
	}, config)
	require.NoError(t, err)
	require.Equal(t, domain.CreditStatusPending, credit.Status)
	return credit
}

func TestApprove_NotifiesOnceAndRejectsSecondApproval(t *testing.T) {
	// GIVEN: a pending credit of a tenant that validates credits manually
	f := newFixture(t, true)
	ctx := context.Background()
	credit := f.issue(t, "lesson-1")
	decision := validate_credit.Decision{CreditID: credit.ID, AdminID: "admin-1", TenantID: "tenant-1"}

	// WHEN
	result, err := f.usecase.Approve(ctx, decision)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusAvailable, result.Credit.Status)
	assert.Equal(t, "admin-1", *result.Credit.ValidatedBy)
	assert.True(t, result.Notified)
	assert.Equal(t, 1, f.notifier.available)

	// WHEN: the same credit is approved again
	_, err = f.usecase.Approve(ctx, decision)

	// THEN: an error, no second notification
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
	assert.ErrorIs(t, err, validate_credit.ErrNotPending)
	assert.Equal(t, 1, f.notifier.available)
}

func TestReject_CancelsAndNotifiesWithReason(t *testing.T) {
	f := newFixture(t, true)
	credit := f.issue(t, "lesson-1")

	result, err := f.usecase.Reject(context.Background(), validate_credit.Decision{
		CreditID: credit.ID, AdminID: "admin-1", Reason: "certificate missing",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusCancelled, result.Credit.Status)
	assert.Equal(t, "certificate missing", *result.Credit.CancelReason)
	assert.Equal(t, []string{"certificate missing"}, f.notifier.rejected)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t, true)
	credit := f.issue(t, "lesson-1")

	_, err := f.usecase.Reject(context.Background(), validate_credit.Decision{CreditID: credit.ID, AdminID: "admin-1"})

	assert.ErrorIs(t, err, validate_credit.ErrInvalidInput)
}

func TestApprove_NotificationFailureKeepsDecision(t *testing.T) {
	f := newFixture(t, true)
	credit := f.issue(t, "lesson-1")
	f.notifier.err = errors.New("smtp down")

	result, err := f.usecase.Approve(context.Background(), validate_credit.Decision{CreditID: credit.ID, AdminID: "admin-1"})

	require.NoError(t, err)
	assert.False(t, result.Notified)
	stored, err := f.ledger.Get(context.Background(), credit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusAvailable, stored.Status)
}

func TestApprove_NoNotificationWhenDisabled(t *testing.T) {
	f := newFixture(t, false)
	credit := f.issue(t, "lesson-1")

	result, err := f.usecase.Approve(context.Background(), validate_credit.Decision{CreditID: credit.ID, AdminID: "admin-1"})

	require.NoError(t, err)
	assert.False(t, result.Notified)
	assert.Zero(t, f.notifier.available)
}

func TestApprove_ForeignTenant(t *testing.T) {
	f := newFixture(t, true)
	credit := f.issue(t, "lesson-1")

	_, err := f.usecase.Approve(context.Background(), validate_credit.Decision{
		CreditID: credit.ID, AdminID: "admin-2", TenantID: "tenant-2",
	})

	assert.ErrorIs(t, err, validate_credit.ErrCreditNotFound)
}

func TestListPending(t *testing.T) {
	f := newFixture(t, true)
	first := f.issue(t, "lesson-1")
	f.issue(t, "lesson-2")
	_, err := f.usecase.Approve(context.Background(), validate_credit.Decision{CreditID: first.ID, AdminID: "admin-1"})
	require.NoError(t, err)

	pending, err := f.usecase.ListPending(context.Background(), "tenant-1", 0, 0)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "lesson-2", pending[0].OriginalLessonID)
}
