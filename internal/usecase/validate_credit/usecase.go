package validate_credit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

// UseCase проверка кредитов администратором автошколы
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

// Approve pending -> available, студент уведомляется один раз при autoNotifyStudent
func (uc *UseCase) Approve(ctx context.Context, d Decision) (*Result, error) {
	uc.logger.Info("Approve: credit=%s admin=%s", d.CreditID, d.AdminID)

	credit, err := uc.decide(ctx, "Approve", d, domain.CreditStatusAvailable)
	if err != nil {
		return nil, err
	}

	notified := uc.notify(ctx, "Approve", credit, func() error {
		_, err := uc.notifier.SendAvailable(ctx, credit)
		return err
	})
	return &Result{Credit: credit, Notified: notified}, nil
}

// Reject pending -> cancelled с причиной
func (uc *UseCase) Reject(ctx context.Context, d Decision) (*Result, error) {
	uc.logger.Info("Reject: credit=%s admin=%s", d.CreditID, d.AdminID)

	d.Reason = strings.TrimSpace(d.Reason)
	if d.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(d.Reason) > domain.MaxCancelReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	credit, err := uc.decide(ctx, "Reject", d, domain.CreditStatusCancelled)
	if err != nil {
		return nil, err
	}

	notified := uc.notify(ctx, "Reject", credit, func() error {
		_, err := uc.notifier.SendRejected(ctx, credit, d.Reason)
		return err
	})
	return &Result{Credit: credit, Notified: notified}, nil
}

// ListPending кредиты автошколы, ожидающие проверки
func (uc *UseCase) ListPending(ctx context.Context, tenantID string, limit, offset int) ([]*domain.MakeupCredit, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	credits, err := uc.ledger.Query(ctx, domain.CreditFilter{
		TenantID: tenantID,
		Statuses: []domain.CreditStatus{domain.CreditStatusPending},
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("ListPending: failed to query tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: failed to query credits: %v", ErrInternal, err)
	}
	return credits, nil
}

func (uc *UseCase) decide(ctx context.Context, op string, d Decision, target domain.CreditStatus) (*domain.MakeupCredit, error) {
	if strings.TrimSpace(d.AdminID) == "" {
		return nil, ErrAccessDenied
	}

	credit, err := uc.ledger.Get(ctx, d.CreditID)
	if err != nil {
		if errors.Is(err, ledger.ErrCreditNotFound) {
			return nil, ErrCreditNotFound
		}
		uc.logger.Error("%s: failed to get credit=%s: %v", op, d.CreditID, err)
		return nil, fmt.Errorf("%w: failed to get credit: %v", ErrInternal, err)
	}
	if d.TenantID != "" && d.TenantID != credit.TenantID {
		return nil, ErrCreditNotFound
	}

	updated, err := uc.ledger.Transition(ctx, ledger.TransitionRequest{
		CreditID:        credit.ID,
		Target:          target,
		Actor:           domain.Actor{Kind: domain.ActorAdmin, ID: d.AdminID},
		Metadata:        ledger.TransitionMetadata{Reason: d.Reason},
		ExpectedVersion: &credit.Version,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidTransition), errors.Is(err, ledger.ErrStaleVersion):
			uc.logger.Warn("%s: credit=%s is %s, not pending", op, credit.ID, credit.Status)
			return nil, fmt.Errorf("%w: %w", ErrNotPending, ledger.ErrInvalidTransition)
		case errors.Is(err, ledger.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("%s: failed to update credit=%s: %v", op, credit.ID, err)
			return nil, fmt.Errorf("%w: failed to update credit: %v", ErrInternal, err)
		}
	}
	return updated, nil
}

// notify отправляет уведомление, если это разрешено конфигурацией
// Ошибка отправки не откатывает решение
func (uc *UseCase) notify(ctx context.Context, op string, credit *domain.MakeupCredit, send func() error) bool {
	config, err := uc.configs.Resolve(ctx, credit.TenantID, credit.Category)
	if err != nil {
		uc.logger.Error("%s: failed to resolve config for credit=%s: %v", op, credit.ID, err)
		return false
	}
	if !config.AutoNotifyStudent {
		return false
	}

	if err := send(); err != nil {
		uc.logger.Error("%s: failed to notify student=%s about credit=%s: %v", op, credit.StudentID, credit.ID, err)
		return false
	}
	return true
}
