package book_credit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/memory"
	configsvc "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/book_credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/metrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/txmanager"
)

var start = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeAvailability struct {
	available bool
	block     bool
}

func (f *fakeAvailability) CheckAvailability(ctx context.Context, _ domain.SlotRequest) (bool, error) {
	if f.block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return f.available, nil
}

type fakeLessons struct {
	mu         sync.Mutex
	created    []string
	cancelled  []string
	onCreate   func() // вызывается после создания урока
	idempotent bool   // повтор с тем же ключом возвращает уже созданный урок
	byKey      map[string]string
}

func (f *fakeLessons) CreateLesson(_ context.Context, slot domain.SlotRequest, creditID uuid.UUID, key string) (*domain.Lesson, error) {
	f.mu.Lock()
	id, seen := f.byKey[key]
	if !f.idempotent || !seen {
		id = fmt.Sprintf("lesson-%d", len(f.created)+1)
		if f.byKey == nil {
			f.byKey = make(map[string]string)
		}
		f.byKey[key] = id
	}
	f.created = append(f.created, key)
	f.mu.Unlock()

	if f.onCreate != nil {
		f.onCreate()
	}
	return &domain.Lesson{
		ID:              id,
		TenantID:        slot.TenantID,
		StudentID:       slot.StudentID,
		InstructorID:    slot.InstructorID,
		Category:        slot.Category,
		StartTime:       slot.StartTime,
		DurationMinutes: slot.DurationMinutes,
		Status:          "scheduled",
		MakeupCreditID:  &creditID,
	}, nil
}

func (f *fakeLessons) CancelLesson(_ context.Context, _, lessonID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, lessonID)
	return nil
}

type fixture struct {
	clock        *fixedClock
	ledger       *ledger.Service
	availability *fakeAvailability
	lessons      *fakeLessons
	usecase      *book_credit.UseCase
}

func newFixture() *fixture {
	clock := &fixedClock{now: start}
	configs := configsvc.NewService(memory.NewConfigRepository(), logger.NewNop())
	ledgerSvc := ledger.NewService(memory.NewCreditRepository(), configs, txmanager.Nop{}, metrics.Nop{}, logger.NewNop()).
		WithTimeProvider(clock)
	availability := &fakeAvailability{available: true}
	lessons := &fakeLessons{}
	uc := book_credit.NewUseCase(ledgerSvc, configs, availability, lessons, book_credit.Options{
		AvailabilityTimeout: 20 * time.Millisecond,
		RetryBase:           time.Millisecond,
		MaxRetries:          2,
	}, logger.NewNop()).WithTimeProvider(clock)

	return &fixture{clock: clock, ledger: ledgerSvc, availability: availability, lessons: lessons, usecase: uc}
}

func (f *fixture) issue(t *testing.T) *domain.MakeupCredit {
	t.Helper()
	credit, err := f.ledger.CreateCredit(context.Background(), domain.CancellationEvent{
		TenantID:    "tenant-1",
		LessonID:    "original-1",
		StudentID:   "student-1",
		Category:    "B",
		Reason:      domain.ReasonVehicleBreakdown,
		CancelledAt: start.Add(-time.Hour),
	}, domain.DefaultMakeupConfig("tenant-1"))
	require.NoError(t, err)
	return credit
}

func request(creditID uuid.UUID, startTime time.Time) *book_credit.Request {
	return &book_credit.Request{
		CreditID:        creditID,
		Actor:           domain.Actor{Kind: domain.ActorStudent, ID: "student-1"},
		TenantID:        "tenant-1",
		InstructorID:    "instructor-1",
		StartTime:       startTime,
		DurationMinutes: 90,
	}
}

func TestExecute_BooksAndCompletesLesson(t *testing.T) {
	// GIVEN: an available credit and a free slot two days ahead
	f := newFixture()
	ctx := context.Background()
	credit := f.issue(t)

	// WHEN
	resp, err := f.usecase.Execute(ctx, request(credit.ID, start.Add(48*time.Hour)))

	// THEN: the credit is booked onto the created lesson
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusBooked, resp.Credit.Status)
	require.NotNil(t, resp.Credit.UsedLessonID)
	assert.Equal(t, resp.Lesson.ID, *resp.Credit.UsedLessonID)
	assert.Equal(t, []string{fmt.Sprintf("%s:1", credit.ID)}, f.lessons.created)

	// WHEN: the lesson service reports the lesson as completed
	completedAt := start.Add(50 * time.Hour)
	updated, err := f.usecase.HandleLessonCompleted(ctx, resp.Lesson.ID, completedAt)

	// THEN
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, domain.CreditStatusUsed, updated[0].Status)
	assert.Equal(t, completedAt, *updated[0].UsedAt)
}

func TestExecute_LeadTimeViolation(t *testing.T) {
	f := newFixture()
	credit := f.issue(t)

	_, err := f.usecase.Execute(context.Background(), request(credit.ID, start.Add(23*time.Hour)))

	assert.ErrorIs(t, err, book_credit.ErrLeadTimeViolation)
	assert.Empty(t, f.lessons.created)
}

func TestExecute_LeadTimeViolationNearExpiry(t *testing.T) {
	// GIVEN: an available credit half an hour before its expiry, minBookingLeadHours=24
	f := newFixture()
	credit := f.issue(t)
	f.clock.now = credit.ExpiresAt.Add(-30 * time.Minute)

	// WHEN: a slot one hour ahead is requested
	_, err := f.usecase.Execute(context.Background(), request(credit.ID, f.clock.now.Add(time.Hour)))

	// THEN
	assert.ErrorIs(t, err, book_credit.ErrLeadTimeViolation)
	assert.Empty(t, f.lessons.created)
	stored, err := f.ledger.Get(context.Background(), credit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusAvailable, stored.Status)
}

func TestExecute_SlotNotAvailableLeavesCreditUntouched(t *testing.T) {
	f := newFixture()
	credit := f.issue(t)
	f.availability.available = false

	_, err := f.usecase.Execute(context.Background(), request(credit.ID, start.Add(48*time.Hour)))

	assert.ErrorIs(t, err, book_credit.ErrSlotNotAvailable)
	stored, err := f.ledger.Get(context.Background(), credit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusAvailable, stored.Status)
	assert.Equal(t, credit.Version, stored.Version)
}

func TestExecute_AvailabilityTimeout(t *testing.T) {
	f := newFixture()
	credit := f.issue(t)
	f.availability.block = true

	_, err := f.usecase.Execute(context.Background(), request(credit.ID, start.Add(48*time.Hour)))

	assert.ErrorIs(t, err, book_credit.ErrAvailabilityTimeout)
	assert.Empty(t, f.lessons.created)
}

func TestExecute_CreditConsumedConcurrentlyCancelsLesson(t *testing.T) {
	// GIVEN: the credit gets cancelled while the lesson is being created
	f := newFixture()
	credit := f.issue(t)
	f.lessons.onCreate = func() {
		_, err := f.ledger.Transition(context.Background(), ledger.TransitionRequest{
			CreditID: credit.ID,
			Target:   domain.CreditStatusCancelled,
			Actor:    domain.Actor{Kind: domain.ActorAdmin, ID: "admin-1"},
		})
		require.NoError(t, err)
	}

	// WHEN
	_, err := f.usecase.Execute(context.Background(), request(credit.ID, start.Add(48*time.Hour)))

	// THEN: the created lesson is cancelled and no double booking happens
	assert.ErrorIs(t, err, book_credit.ErrCreditConsumed)
	assert.Equal(t, []string{"lesson-1"}, f.lessons.cancelled)
}

func TestExecute_DuplicateRequestKeepsSharedLesson(t *testing.T) {
	// GIVEN: the lesson service returns the same lesson for a repeated idempotency key
	// and two requests for one credit both reach lesson creation
	f := newFixture()
	credit := f.issue(t)
	f.lessons.idempotent = true

	var arrived sync.WaitGroup
	arrived.Add(2)
	f.lessons.onCreate = func() {
		arrived.Done()
		arrived.Wait()
	}

	// WHEN
	var wg sync.WaitGroup
	errs := make([]error, 2)
	responses := make([]*book_credit.Response, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = f.usecase.Execute(context.Background(), request(credit.ID, start.Add(48*time.Hour)))
		}(i)
	}
	wg.Wait()

	// THEN: both callers see the same booking and the lesson stays scheduled
	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, "lesson-1", responses[i].Lesson.ID)
		assert.Equal(t, domain.CreditStatusBooked, responses[i].Credit.Status)
	}
	assert.Empty(t, f.lessons.cancelled)

	stored, err := f.ledger.Get(context.Background(), credit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditStatusBooked, stored.Status)
	require.NotNil(t, stored.UsedLessonID)
	assert.Equal(t, "lesson-1", *stored.UsedLessonID)
}

func TestExecute_StudentCannotUseForeignCredit(t *testing.T) {
	f := newFixture()
	credit := f.issue(t)
	req := request(credit.ID, start.Add(48*time.Hour))
	req.Actor.ID = "student-2"

	_, err := f.usecase.Execute(context.Background(), req)

	assert.ErrorIs(t, err, book_credit.ErrAccessDenied)
}

func TestExecute_BookedCreditIsNotAvailable(t *testing.T) {
	f := newFixture()
	credit := f.issue(t)
	_, err := f.usecase.Execute(context.Background(), request(credit.ID, start.Add(48*time.Hour)))
	require.NoError(t, err)

	_, err = f.usecase.Execute(context.Background(), request(credit.ID, start.Add(72*time.Hour)))

	assert.ErrorIs(t, err, book_credit.ErrCreditNotAvailable)
	assert.Len(t, f.lessons.created, 1)
}

func TestHandleLessonCancelled_ReopensCreditWithSameExpiry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	credit := f.issue(t)
	resp, err := f.usecase.Execute(ctx, request(credit.ID, start.Add(48*time.Hour)))
	require.NoError(t, err)

	updated, err := f.usecase.HandleLessonCancelled(ctx, resp.Lesson.ID)

	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, domain.CreditStatusAvailable, updated[0].Status)
	assert.Equal(t, credit.ExpiresAt, updated[0].ExpiresAt)
	assert.Nil(t, updated[0].UsedLessonID)

	// Повторная доставка события ничего не меняет
	again, err := f.usecase.HandleLessonCancelled(ctx, resp.Lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
}
