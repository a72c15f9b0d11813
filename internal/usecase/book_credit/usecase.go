package book_credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	lessonClient "github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/lessonservice"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

// compensationReason причина отмены урока, созданного для уже использованного кредита
const compensationReason = "makeup credit consumed concurrently"

// UseCase координирует бронирование урока по кредиту отработки
type UseCase struct {
	ledger       CreditLedger
	configs      ConfigResolver
	availability AvailabilityChecker
	lessons      LessonScheduler
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	credits CreditLedger,
	configs ConfigResolver,
	availability AvailabilityChecker,
	lessons LessonScheduler,
	opts Options,
	logger Logger,
) *UseCase {
	defaults := DefaultOptions()
	if opts.AvailabilityTimeout <= 0 {
		opts.AvailabilityTimeout = defaults.AvailabilityTimeout
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaults.RetryBase
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaults.MaxRetries
	}

	return &UseCase{
		ledger:       credits,
		configs:      configs,
		availability: availability,
		lessons:      lessons,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute бронирует урок по кредиту
// Кредит не меняется, пока урок не создан в LessonService
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookCredit: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("BookCredit: credit=%s actor=%s:%s start=%s",
		req.CreditID, req.Actor.Kind, req.Actor.ID, req.StartTime.Format(domain.DateTimeFormat))

	// 1. Кредит должен быть доступен
	credit, err := uc.ledger.Get(ctx, req.CreditID)
	if err != nil {
		if errors.Is(err, ledger.ErrCreditNotFound) {
			return nil, ErrCreditNotFound
		}
		uc.logger.Error("BookCredit: failed to get credit=%s: %v", req.CreditID, err)
		return nil, fmt.Errorf("%w: failed to get credit: %v", ErrInternal, err)
	}
	if err := validateOwnership(req, credit); err != nil {
		uc.logger.Warn("BookCredit: actor=%s:%s cannot use credit=%s", req.Actor.Kind, req.Actor.ID, credit.ID)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if !credit.CanBeBooked(now) {
		uc.logger.Warn("BookCredit: credit=%s is %s, expires %s", credit.ID, credit.Status, credit.ExpiresAt.Format(domain.DateTimeFormat))
		return nil, fmt.Errorf("%w: status %s", ErrCreditNotAvailable, credit.Status)
	}

	// 2. Минимальный срок до начала урока
	config, err := uc.configs.Resolve(ctx, credit.TenantID, credit.Category)
	if err != nil {
		uc.logger.Error("BookCredit: failed to resolve config for tenant=%s category=%s: %v", credit.TenantID, credit.Category, err)
		return nil, fmt.Errorf("%w: failed to resolve config: %v", ErrInternal, err)
	}
	if err := validateLeadTime(req.StartTime, now, config); err != nil {
		uc.logger.Warn("BookCredit: credit=%s: %v", credit.ID, err)
		return nil, err
	}

	// 3. Доступность инструктора и автомобиля
	slot := slotFor(req, credit)
	if err := uc.checkAvailability(ctx, slot); err != nil {
		return nil, err
	}

	// 4. Создаем урок, ключ идемпотентности привязан к версии кредита
	idempotencyKey := fmt.Sprintf("%s:%d", credit.ID, credit.Version)
	lesson, err := uc.lessons.CreateLesson(ctx, slot, credit.ID, idempotencyKey)
	if err != nil {
		if errors.Is(err, lessonClient.ErrSlotTaken) {
			uc.logger.Warn("BookCredit: slot %s taken while creating lesson", slot.StartTime.Format(domain.DateTimeFormat))
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("BookCredit: failed to create lesson for credit=%s: %v", credit.ID, err)
		return nil, fmt.Errorf("%w: failed to create lesson: %v", ErrInternal, err)
	}

	// 5. Переводим кредит в booked
	booked, err := uc.markBooked(ctx, req.Actor, credit, lesson)
	if err != nil {
		// Повторный запрос с тем же ключом получает тот же урок, его бронь уже могла пройти
		current, ok, readErr := uc.bookedOnto(ctx, credit.ID, lesson.ID)
		if readErr != nil {
			// Без актуального состояния урок не отменяем
			uc.logger.Error("BookCredit: failed to re-read credit=%s, lesson=%s left as is: %v", credit.ID, lesson.ID, readErr)
			return nil, fmt.Errorf("%w: failed to book credit: %v", ErrInternal, err)
		}
		if ok {
			uc.logger.Info("BookCredit: credit=%s already booked onto lesson=%s", credit.ID, lesson.ID)
			return &Response{Lesson: lesson, Credit: current}, nil
		}
		if errors.Is(err, ledger.ErrInvalidTransition) {
			uc.compensate(ctx, credit, lesson)
			return nil, ErrCreditConsumed
		}
		uc.logger.Error("BookCredit: failed to book credit=%s onto lesson=%s: %v", credit.ID, lesson.ID, err)
		uc.compensate(ctx, credit, lesson)
		return nil, fmt.Errorf("%w: failed to book credit: %v", ErrInternal, err)
	}

	uc.logger.Info("BookCredit: credit=%s booked onto lesson=%s", booked.ID, lesson.ID)
	return &Response{Lesson: lesson, Credit: booked}, nil
}

func (uc *UseCase) checkAvailability(ctx context.Context, slot domain.SlotRequest) error {
	checkCtx, cancel := context.WithTimeout(ctx, uc.opts.AvailabilityTimeout)
	defer cancel()

	available, err := uc.availability.CheckAvailability(checkCtx, slot)
	if err != nil {
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			uc.logger.Warn("BookCredit: availability check timed out after %s", uc.opts.AvailabilityTimeout)
			return ErrAvailabilityTimeout
		}
		uc.logger.Error("BookCredit: availability check failed: %v", err)
		return fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}
	if !available {
		uc.logger.Warn("BookCredit: instructor=%s not available at %s", slot.InstructorID, slot.StartTime.Format(domain.DateTimeFormat))
		return ErrSlotNotAvailable
	}
	return nil
}

// markBooked переход available -> booked с повтором при конфликте версий
func (uc *UseCase) markBooked(ctx context.Context, actor domain.Actor, credit *domain.MakeupCredit, lesson *domain.Lesson) (*domain.MakeupCredit, error) {
	backoff := retry.WithMaxRetries(uc.opts.MaxRetries, retry.NewExponential(uc.opts.RetryBase))
	bookedFor := lesson.StartTime

	var booked *domain.MakeupCredit
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		updated, err := uc.ledger.Transition(ctx, ledger.TransitionRequest{
			CreditID: credit.ID,
			Target:   domain.CreditStatusBooked,
			Actor:    actor,
			Metadata: ledger.TransitionMetadata{UsedLessonID: lesson.ID, BookedFor: &bookedFor},
		})
		if errors.Is(err, ledger.ErrStaleVersion) || errors.Is(err, ledger.ErrInternal) {
			uc.logger.Warn("BookCredit: retrying transition of credit=%s: %v", credit.ID, err)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		booked = updated
		return nil
	})
	return booked, err
}

// bookedOnto перечитывает кредит и проверяет, что он забронирован именно на этот урок
func (uc *UseCase) bookedOnto(ctx context.Context, creditID uuid.UUID, lessonID string) (*domain.MakeupCredit, bool, error) {
	current, err := uc.ledger.Get(ctx, creditID)
	if err != nil {
		return nil, false, err
	}
	if current.Status != domain.CreditStatusBooked || current.UsedLessonID == nil || *current.UsedLessonID != lessonID {
		return nil, false, nil
	}
	return current, true, nil
}

// compensate отменяет урок, для которого кредит не удалось забронировать
func (uc *UseCase) compensate(ctx context.Context, credit *domain.MakeupCredit, lesson *domain.Lesson) {
	uc.logger.Warn("BookCredit: cancelling lesson=%s, credit=%s was not booked", lesson.ID, credit.ID)
	if err := uc.lessons.CancelLesson(context.WithoutCancel(ctx), credit.TenantID, lesson.ID, compensationReason); err != nil {
		uc.logger.Error("BookCredit: compensation failed for lesson=%s: %v", lesson.ID, err)
	}
}

// HandleLessonCompleted booked -> used для кредитов урока
// Кредиты в других статусах пропускаются
func (uc *UseCase) HandleLessonCompleted(ctx context.Context, lessonID string, completedAt time.Time) ([]*domain.MakeupCredit, error) {
	meta := ledger.TransitionMetadata{}
	if !completedAt.IsZero() {
		meta.UsedAt = &completedAt
	}
	return uc.resolveLesson(ctx, "HandleLessonCompleted", lessonID, domain.CreditStatusUsed, meta)
}

// HandleLessonCancelled booked -> available, срок действия не продлевается
func (uc *UseCase) HandleLessonCancelled(ctx context.Context, lessonID string) ([]*domain.MakeupCredit, error) {
	return uc.resolveLesson(ctx, "HandleLessonCancelled", lessonID, domain.CreditStatusAvailable, ledger.TransitionMetadata{})
}

func (uc *UseCase) resolveLesson(
	ctx context.Context,
	op, lessonID string,
	target domain.CreditStatus,
	meta ledger.TransitionMetadata,
) ([]*domain.MakeupCredit, error) {
	if lessonID == "" {
		return nil, fmt.Errorf("%w: lessonId is required", ErrInvalidInput)
	}

	credits, err := uc.ledger.FindByLesson(ctx, lessonID)
	if err != nil {
		uc.logger.Error("%s: failed to find credits of lesson=%s: %v", op, lessonID, err)
		return nil, fmt.Errorf("%w: failed to find credits: %v", ErrInternal, err)
	}

	updated := make([]*domain.MakeupCredit, 0, len(credits))
	for _, credit := range credits {
		if credit.Status != domain.CreditStatusBooked {
			uc.logger.Info("%s: credit=%s is %s, skipping", op, credit.ID, credit.Status)
			continue
		}

		result, err := uc.ledger.Transition(ctx, ledger.TransitionRequest{
			CreditID:        credit.ID,
			Target:          target,
			Actor:           domain.SystemActor,
			Metadata:        meta,
			ExpectedVersion: &credit.Version,
		})
		if err != nil {
			uc.logger.Error("%s: failed to move credit=%s to %s: %v", op, credit.ID, target, err)
			return updated, fmt.Errorf("%w: credit %s: %v", ErrInternal, credit.ID, err)
		}
		updated = append(updated, result)
	}

	uc.logger.Info("%s: lesson=%s, %d credit(s) moved to %s", op, lessonID, len(updated), target)
	return updated, nil
}
