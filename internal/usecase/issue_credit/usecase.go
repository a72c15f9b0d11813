package issue_credit

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

// UseCase выпуск кредита отработки по событию отмены урока
type UseCase struct {
	ledger   CreditLedger
	configs  ConfigResolver
	notifier Notifier
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(credits CreditLedger, configs ConfigResolver, notifier Notifier, logger Logger) *UseCase {
	return &UseCase{
		ledger:   credits,
		configs:  configs,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute выпускает кредит и уведомляет студента, если кредит сразу доступен
func (uc *UseCase) Execute(ctx context.Context, event domain.CancellationEvent) (*Result, error) {
	uc.logger.Info("IssueCredit: tenant=%s lesson=%s reason=%s", event.TenantID, event.LessonID, event.Reason)

	// 1. Повторная доставка события
	existing, err := uc.ledger.GetByOriginalLesson(ctx, event.LessonID)
	if err == nil {
		uc.logger.Info("IssueCredit: lesson=%s already has credit=%s", event.LessonID, existing.ID)
		return &Result{Credit: existing}, nil
	}
	if !errors.Is(err, ledger.ErrCreditNotFound) {
		uc.logger.Error("IssueCredit: failed to check lesson=%s: %v", event.LessonID, err)
		return nil, fmt.Errorf("%w: failed to check lesson: %v", ErrInternal, err)
	}

	// 2. Конфигурация категории
	config, err := uc.configs.Resolve(ctx, event.TenantID, event.Category)
	if err != nil {
		uc.logger.Error("IssueCredit: failed to resolve config for tenant=%s category=%s: %v", event.TenantID, event.Category, err)
		return nil, fmt.Errorf("%w: failed to resolve config: %v", ErrInternal, err)
	}

	// 3. Выпуск кредита
	credit, err := uc.ledger.CreateCredit(ctx, event, config)
	if errors.Is(err, ledger.ErrAlreadyIssued) {
		// Параллельная доставка выпустила кредит раньше, уведомление уже за ней
		uc.logger.Info("IssueCredit: lesson=%s credit=%s issued by a concurrent delivery", event.LessonID, credit.ID)
		return &Result{Credit: credit}, nil
	}
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrIneligibleReason):
			return nil, fmt.Errorf("%w: %w", ErrNotEligible, err)
		case errors.Is(err, ledger.ErrCreditConflict):
			return nil, ErrCreditConflict
		case errors.Is(err, ledger.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			return nil, fmt.Errorf("%w: failed to create credit: %v", ErrInternal, err)
		}
	}

	result := &Result{Credit: credit, Created: true}

	// 4. Уведомление, ошибка не отменяет выпуск
	if credit.Status == domain.CreditStatusAvailable && config.AutoNotifyStudent && uc.notifier != nil {
		if _, err := uc.notifier.SendAvailable(ctx, credit); err != nil {
			uc.logger.Error("IssueCredit: failed to notify student=%s about credit=%s: %v", credit.StudentID, credit.ID, err)
		} else {
			result.Notified = true
		}
	}

	return result, nil
}
