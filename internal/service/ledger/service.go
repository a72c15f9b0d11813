package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	creditRepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/eligibility"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/ptr"
)

// recordReminderAttempts сколько раз RecordReminder перечитывает кредит при параллельном изменении
const recordReminderAttempts = 3

// Service журнал кредитов отработки: единственное место, где меняется статус кредита
// Каждый переход сохраняется сравнением версии, проигравший гонку получает ErrStaleVersion
type Service struct {
	creditRepo   CreditRepository
	configs      ConfigResolver
	txManager    TransactionManager
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
	studentLocks *keyedLocker
}

// NewService создает новый экземпляр журнала кредитов
func NewService(
	creditRepo CreditRepository,
	configs ConfigResolver,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		creditRepo:   creditRepo,
		configs:      configs,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		studentLocks: newKeyedLocker(),
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// CreateCredit выпускает кредит за отмененный урок
// Повторное событие для того же урока возвращает уже выпущенный кредит вместе с ErrAlreadyIssued
func (s *Service) CreateCredit(ctx context.Context, event domain.CancellationEvent, config *domain.MakeupConfig) (*domain.MakeupCredit, error) {
	s.logger.Info("CreateCredit: tenant=%s, student=%s, lesson=%s, reason=%s",
		event.TenantID, event.StudentID, event.LessonID, event.Reason)

	if err := validateEvent(event); err != nil {
		s.logger.Warn("CreateCredit: invalid event for lesson=%s: %v", event.LessonID, err)
		return nil, err
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidInput)
	}

	existing, err := s.creditRepo.GetByOriginalLessonID(ctx, event.LessonID)
	if err == nil {
		s.logger.Info("CreateCredit: credit id=%s already issued for lesson=%s", existing.ID, event.LessonID)
		return existing, ErrAlreadyIssued
	}
	if !errors.Is(err, creditRepo.ErrCreditNotFound) {
		s.logger.Error("CreateCredit: failed to check lesson=%s: %v", event.LessonID, err)
		return nil, fmt.Errorf("%w: CreateCredit - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	if !eligibility.Validate(event.Reason, config) {
		s.logger.Info("CreateCredit: reason=%s is not eligible for tenant=%s category=%s",
			event.Reason, event.TenantID, event.Category)
		return nil, ErrIneligibleReason
	}
	if !eligibility.WithinCancellationWindow(event.CancelledAt, now, config) {
		s.logger.Info("CreateCredit: lesson=%s cancelled at %s is outside the %d days window",
			event.LessonID, event.CancelledAt.Format(domain.DateTimeFormat), config.MaxDaysFromCancellation)
		return nil, ErrCancellationTooLate
	}

	status := domain.CreditStatusAvailable
	if config.RequiresAdminValidation {
		status = domain.CreditStatusPending
	}

	credit := &domain.MakeupCredit{
		ID:               uuid.New(),
		TenantID:         event.TenantID,
		StudentID:        event.StudentID,
		OriginalLessonID: event.LessonID,
		Category:         event.Category,
		Reason:           event.Reason,
		ReasonDetails:    event.ReasonDetails,
		Status:           status,
		CreatedAt:        now,
		ExpiresAt:        now.Add(config.ExpiryDuration()),
		RemindersSent:    []int{},
		Version:          1,
		UpdatedAt:        now,
	}

	if config.AllowMultipleCredits {
		err = s.creditRepo.Create(ctx, credit)
	} else {
		err = s.createExclusive(ctx, credit)
	}

	if errors.Is(err, creditRepo.ErrDuplicateLesson) {
		existing, getErr := s.creditRepo.GetByOriginalLessonID(ctx, event.LessonID)
		if getErr != nil {
			s.logger.Error("CreateCredit: failed to load concurrent credit for lesson=%s: %v", event.LessonID, getErr)
			return nil, fmt.Errorf("%w: CreateCredit - repository error: %v", ErrInternal, getErr)
		}
		s.logger.Info("CreateCredit: credit id=%s issued concurrently for lesson=%s", existing.ID, event.LessonID)
		return existing, ErrAlreadyIssued
	}
	if errors.Is(err, ErrCreditConflict) {
		s.logger.Warn("CreateCredit: student=%s already holds an active credit in category=%s",
			event.StudentID, event.Category)
		return nil, err
	}
	if err != nil {
		s.logger.Error("CreateCredit: failed to save credit for lesson=%s: %v", event.LessonID, err)
		return nil, fmt.Errorf("%w: CreateCredit - repository error: %v", ErrInternal, err)
	}

	s.metrics.CreditIssued(string(credit.Status))
	s.logger.Info("CreateCredit: issued credit id=%s status=%s expiresAt=%s",
		credit.ID, credit.Status, credit.ExpiresAt.Format(domain.DateTimeFormat))
	return credit.Clone(), nil
}

// createExclusive сохраняет кредит, только если у студента нет другого активного в категории
func (s *Service) createExclusive(ctx context.Context, credit *domain.MakeupCredit) error {
	unlock := s.studentLocks.Lock(credit.TenantID + "/" + credit.StudentID + "/" + credit.Category)
	defer unlock()

	return s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Параллельная доставка того же события уже могла выпустить кредит
		_, err := s.creditRepo.GetByOriginalLessonID(ctx, credit.OriginalLessonID)
		if err == nil {
			return creditRepo.ErrDuplicateLesson
		}
		if !errors.Is(err, creditRepo.ErrCreditNotFound) {
			return err
		}

		active, err := s.creditRepo.CountActive(ctx, credit.TenantID, credit.StudentID, credit.Category)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrCreditConflict
		}
		return s.creditRepo.Create(ctx, credit)
	})
}

// Transition переводит кредит в другой статус по графу переходов
// При ошибке кредит не меняется
func (s *Service) Transition(ctx context.Context, req TransitionRequest) (*domain.MakeupCredit, error) {
	s.logger.Info("Transition: credit=%s target=%s actor=%s:%s", req.CreditID, req.Target, req.Actor.Kind, req.Actor.ID)

	if !req.Actor.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown actor kind %q", ErrInvalidInput, req.Actor.Kind)
	}
	if !req.Target.IsValid() {
		return nil, fmt.Errorf("%w: unknown target status %q", ErrInvalidInput, req.Target)
	}

	credit, err := s.get(ctx, "Transition", req.CreditID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != credit.Version {
		s.logger.Warn("Transition: credit=%s is at version %d, expected %d", credit.ID, credit.Version, *req.ExpectedVersion)
		return nil, ErrStaleVersion
	}

	return s.apply(ctx, credit, req.Target, req.Actor, req.Metadata)
}

// MarkExpired переводит кредит в expired после expiresAt, вызывается только системой
// Уже истекший кредит возвращается без изменений
func (s *Service) MarkExpired(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error) {
	credit, err := s.get(ctx, "MarkExpired", creditID)
	if err != nil {
		return nil, err
	}
	if credit.Status == domain.CreditStatusExpired {
		return credit, nil
	}

	return s.apply(ctx, credit, domain.CreditStatusExpired, domain.SystemActor, TransitionMetadata{})
}

// RecordReminder отмечает отправленное напоминание, статус кредита не меняется
func (s *Service) RecordReminder(ctx context.Context, creditID uuid.UUID, offset int) (*domain.MakeupCredit, error) {
	if offset <= 0 {
		return nil, fmt.Errorf("%w: reminder offset must be positive", ErrInvalidInput)
	}

	for attempt := 1; ; attempt++ {
		credit, err := s.get(ctx, "RecordReminder", creditID)
		if err != nil {
			return nil, err
		}
		if credit.IsTerminal() {
			return nil, fmt.Errorf("%w: credit %s is %s", ErrInvalidTransition, credit.ID, credit.Status)
		}
		if credit.HasReminder(offset) {
			return credit, nil
		}

		expected := credit.Version
		credit.RemindersSent = append(credit.RemindersSent, offset)
		credit.UpdatedAt = s.timeProvider.Now()

		err = s.creditRepo.UpdateWithVersion(ctx, credit, expected)
		if err == nil {
			return credit.Clone(), nil
		}
		if !errors.Is(err, creditRepo.ErrStaleVersion) {
			s.logger.Error("RecordReminder: failed to save credit=%s: %v", creditID, err)
			return nil, fmt.Errorf("%w: RecordReminder - repository error: %v", ErrInternal, err)
		}
		if attempt == recordReminderAttempts {
			return nil, ErrStaleVersion
		}
	}
}

// Get получает кредит по ID
func (s *Service) Get(ctx context.Context, creditID uuid.UUID) (*domain.MakeupCredit, error) {
	return s.get(ctx, "Get", creditID)
}

// Query получает кредиты по фильтру
func (s *Service) Query(ctx context.Context, filter domain.CreditFilter) ([]*domain.MakeupCredit, error) {
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}

	credits, err := s.creditRepo.Query(ctx, filter)
	if err != nil {
		s.logger.Error("Query: repository error for tenant=%s: %v", filter.TenantID, err)
		return nil, fmt.Errorf("%w: Query - repository error: %v", ErrInternal, err)
	}
	return credits, nil
}

// GetByOriginalLesson получает кредит, выпущенный за отмененный урок
func (s *Service) GetByOriginalLesson(ctx context.Context, lessonID string) (*domain.MakeupCredit, error) {
	credit, err := s.creditRepo.GetByOriginalLessonID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, creditRepo.ErrCreditNotFound) {
			return nil, ErrCreditNotFound
		}
		s.logger.Error("GetByOriginalLesson: repository error for lesson=%s: %v", lessonID, err)
		return nil, fmt.Errorf("%w: GetByOriginalLesson - repository error: %v", ErrInternal, err)
	}
	return credit, nil
}

// FindByLesson получает кредиты, забронированные на урок
func (s *Service) FindByLesson(ctx context.Context, lessonID string) ([]*domain.MakeupCredit, error) {
	credits, err := s.creditRepo.ListByUsedLessonID(ctx, lessonID)
	if err != nil {
		s.logger.Error("FindByLesson: repository error for lesson=%s: %v", lessonID, err)
		return nil, fmt.Errorf("%w: FindByLesson - repository error: %v", ErrInternal, err)
	}
	return credits, nil
}

func (s *Service) get(ctx context.Context, op string, creditID uuid.UUID) (*domain.MakeupCredit, error) {
	credit, err := s.creditRepo.GetByID(ctx, creditID)
	if err != nil {
		if errors.Is(err, creditRepo.ErrCreditNotFound) {
			s.logger.Warn("%s: credit id=%s not found", op, creditID)
			return nil, ErrCreditNotFound
		}
		s.logger.Error("%s: repository error for credit id=%s: %v", op, creditID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return credit, nil
}

// apply проверяет переход, меняет поля копии и сохраняет ее сравнением версии
func (s *Service) apply(
	ctx context.Context,
	credit *domain.MakeupCredit,
	target domain.CreditStatus,
	actor domain.Actor,
	meta TransitionMetadata,
) (*domain.MakeupCredit, error) {
	from := credit.Status
	if !domain.CanTransition(from, target, actor.Kind) {
		s.logger.Warn("Transition: %s -> %s is not allowed for %s (credit=%s)", from, target, actor.Kind, credit.ID)
		return nil, fmt.Errorf("%w: %s -> %s by %s", ErrInvalidTransition, from, target, actor.Kind)
	}

	now := s.timeProvider.Now()
	updated := credit.Clone()

	switch target {
	case domain.CreditStatusAvailable:
		if from == domain.CreditStatusPending {
			updated.ValidatedBy = ptr.Ptr(actor.ID)
			updated.ValidatedAt = ptr.Ptr(now)
		} else {
			// Урок отменен: кредит снова свободен, срок действия не продлевается
			updated.UsedLessonID = nil
			updated.BookedFor = nil
		}

	case domain.CreditStatusBooked:
		lessonID := strings.TrimSpace(meta.UsedLessonID)
		if lessonID == "" {
			return nil, fmt.Errorf("%w: usedLessonId is required for booking", ErrInvalidInput)
		}
		if credit.IsExpiryReached(now) {
			s.logger.Warn("Transition: credit=%s expired at %s, cannot be booked", credit.ID, credit.ExpiresAt.Format(domain.DateTimeFormat))
			return nil, fmt.Errorf("%w: credit expired at %s", ErrInvalidTransition, credit.ExpiresAt.Format(domain.DateTimeFormat))
		}
		updated.UsedLessonID = &lessonID
		updated.BookedFor = meta.BookedFor

	case domain.CreditStatusUsed:
		usedAt := now
		if meta.UsedAt != nil {
			usedAt = *meta.UsedAt
		}
		updated.UsedAt = &usedAt

	case domain.CreditStatusExpired:
		if !credit.IsExpiryReached(now) {
			return nil, fmt.Errorf("%w: credit %s expires at %s", ErrInvalidTransition, credit.ID, credit.ExpiresAt.Format(domain.DateTimeFormat))
		}
		if from == domain.CreditStatusBooked {
			grace, err := s.bookedGrace(ctx, credit)
			if err != nil {
				return nil, err
			}
			if credit.BookedFor != nil && now.Before(credit.BookedFor.Add(grace)) {
				s.logger.Info("Transition: credit=%s booked for %s, expiry waits for the lesson outcome",
					credit.ID, credit.BookedFor.Format(domain.DateTimeFormat))
				return nil, ErrExpiryDeferred
			}
		}

	case domain.CreditStatusCancelled:
		if from == domain.CreditStatusPending {
			updated.ValidatedBy = ptr.Ptr(actor.ID)
			updated.ValidatedAt = ptr.Ptr(now)
		}
		updated.CancelledBy = ptr.Ptr(actor.ID)
		if reason := strings.TrimSpace(meta.Reason); reason != "" {
			if len(reason) > domain.MaxCancelReasonLength {
				return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
			}
			updated.CancelReason = &reason
		}
	}

	updated.Status = target
	updated.UpdatedAt = now

	if err := s.creditRepo.UpdateWithVersion(ctx, updated, credit.Version); err != nil {
		if errors.Is(err, creditRepo.ErrStaleVersion) {
			s.logger.Warn("Transition: credit=%s changed concurrently (version %d)", credit.ID, credit.Version)
			return nil, ErrStaleVersion
		}
		s.logger.Error("Transition: failed to save credit=%s: %v", credit.ID, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	s.metrics.CreditTransitioned(string(from), string(target))
	s.logger.Info("Transition: credit=%s %s -> %s (version %d)", updated.ID, from, target, updated.Version)
	return updated.Clone(), nil
}

// bookedGrace сколько забронированный урок может оставаться без итога после начала
func (s *Service) bookedGrace(ctx context.Context, credit *domain.MakeupCredit) (time.Duration, error) {
	if s.configs == nil {
		return time.Duration(domain.DefaultBookedGraceHours) * time.Hour, nil
	}

	config, err := s.configs.Resolve(ctx, credit.TenantID, credit.Category)
	if err != nil {
		s.logger.Error("Transition: failed to resolve config for credit=%s: %v", credit.ID, err)
		return 0, fmt.Errorf("%w: Transition - config error: %v", ErrInternal, err)
	}
	return config.BookedGrace(), nil
}
