package issue_credit_test

import (
	"context"
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
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/issue_credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/metrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/ptr"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/txmanager"
)

type countingNotifier struct {
	mu   sync.Mutex
	sent int
}

func (n *countingNotifier) SendAvailable(context.Context, *domain.MakeupCredit) (domain.DispatchResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent++
	return domain.DispatchResult{Channel: domain.ChannelConsole}, nil
}

// gatedLedger задерживает проверку повторной доставки, пока ее не пройдут все вызовы
type gatedLedger struct {
	*ledger.Service
	arrived *sync.WaitGroup
}

func (g *gatedLedger) GetByOriginalLesson(ctx context.Context, lessonID string) (*domain.MakeupCredit, error) {
	credit, err := g.Service.GetByOriginalLesson(ctx, lessonID)
	g.arrived.Done()
	g.arrived.Wait()
	return credit, err
}

func newUseCase() (*issue_credit.UseCase, *configsvc.Service, *countingNotifier) {
	configs := configsvc.NewService(memory.NewConfigRepository(), logger.NewNop())
	ledgerSvc := ledger.NewService(memory.NewCreditRepository(), configs, txmanager.Nop{}, metrics.Nop{}, logger.NewNop())
	notifier := &countingNotifier{}
	return issue_credit.NewUseCase(ledgerSvc, configs, notifier, logger.NewNop()), configs, notifier
}

func event(lessonID string, reason domain.CancellationReason) domain.CancellationEvent {
	return domain.CancellationEvent{
		TenantID:    "tenant-1",
		LessonID:    lessonID,
		StudentID:   "student-1",
		Category:    "B",
		Reason:      reason,
		CancelledAt: time.Now().UTC().Add(-2 * time.Hour),
	}
}

func TestExecute_IssuesAndNotifiesOnce(t *testing.T) {
	uc, _, notifier := newUseCase()
	ctx := context.Background()

	first, err := uc.Execute(ctx, event("lesson-1", domain.ReasonInstructorUnavailable))
	require.NoError(t, err)
	again, err := uc.Execute(ctx, event("lesson-1", domain.ReasonInstructorUnavailable))
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.True(t, first.Notified)
	assert.False(t, again.Created)
	assert.Equal(t, first.Credit.ID, again.Credit.ID)
	assert.Equal(t, 1, notifier.sent)
}

func TestExecute_IneligibleReason(t *testing.T) {
	uc, _, notifier := newUseCase()

	_, err := uc.Execute(context.Background(), event("lesson-1", domain.ReasonStudentNoShow))

	assert.ErrorIs(t, err, issue_credit.ErrNotEligible)
	assert.ErrorIs(t, err, ledger.ErrIneligibleReason)
	assert.Zero(t, notifier.sent)
}

func TestExecute_PendingCreditIsNotAnnounced(t *testing.T) {
	uc, configs, notifier := newUseCase()
	_, err := configs.Upsert(context.Background(), &models.UpsertConfigRequest{
		Actor:                   domain.Actor{Kind: domain.ActorAdmin, ID: "admin-1"},
		TenantID:                "tenant-1",
		Category:                "B",
		RequiresAdminValidation: ptr.Ptr(true),
	})
	require.NoError(t, err)

	result, err := uc.Execute(context.Background(), event("lesson-1", domain.ReasonVehicleBreakdown))

	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusPending, result.Credit.Status)
	assert.False(t, result.Notified)
	assert.Zero(t, notifier.sent)
}

func TestExecute_ConcurrentRedeliveryNotifiesOnce(t *testing.T) {
	// GIVEN: two deliveries of one cancellation that both miss the existing credit
	configs := configsvc.NewService(memory.NewConfigRepository(), logger.NewNop())
	ledgerSvc := ledger.NewService(memory.NewCreditRepository(), configs, txmanager.Nop{}, metrics.Nop{}, logger.NewNop())
	var arrived sync.WaitGroup
	arrived.Add(2)
	notifier := &countingNotifier{}
	uc := issue_credit.NewUseCase(&gatedLedger{Service: ledgerSvc, arrived: &arrived}, configs, notifier, logger.NewNop())

	// WHEN
	var wg sync.WaitGroup
	results := make([]*issue_credit.Result, 2)
	errs := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.Execute(context.Background(), event("lesson-1", domain.ReasonInstructorUnavailable))
		}(i)
	}
	wg.Wait()

	// THEN: exactly one delivery issued the credit and the student is told once
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].Credit.ID, results[1].Credit.ID)
	assert.NotEqual(t, results[0].Created, results[1].Created)
	assert.Equal(t, 1, notifier.sent)
}
