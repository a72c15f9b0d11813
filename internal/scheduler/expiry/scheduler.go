package expiry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
)

const (
	defaultInterval  = 24 * time.Hour
	defaultWorkers   = 4
	defaultBatchSize = 500
)

// Scheduler периодически отправляет напоминания и переводит кредиты в expired
type Scheduler struct {
	ledger       CreditLedger
	dispatcher   ReminderDispatcher
	configs      ConfigResolver
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
	cfg          Config

	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New создает планировщик
func New(
	credits CreditLedger,
	dispatcher ReminderDispatcher,
	configs ConfigResolver,
	metrics MetricsRecorder,
	cfg Config,
	logger Logger,
) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return &Scheduler{
		ledger:       credits,
		dispatcher:   dispatcher,
		configs:      configs,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
		stopChan:     make(chan struct{}),
	}
}

// WithTimeProvider подменяет источник времени
func (s *Scheduler) WithTimeProvider(tp TimeProvider) *Scheduler {
	s.timeProvider = tp
	return s
}

// Start запускает тики в фоне, первый тик выполняется сразу
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting expiry scheduler: interval=%s workers=%d", s.cfg.Interval, s.cfg.Workers)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop останавливает тики и ждет завершения текущего
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping expiry scheduler")
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	s.tickAndLog(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tickAndLog(ctx)
		case <-s.stopChan:
			s.logger.Info("Expiry scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Expiry scheduler cancelled")
			return
		}
	}
}

func (s *Scheduler) tickAndLog(ctx context.Context) {
	report, err := s.Tick(ctx)
	if errors.Is(err, ErrTickInProgress) {
		s.logger.Warn("Tick: previous tick still running, skipping")
		return
	}
	if err != nil {
		s.logger.Error("Tick: failed: %v", err)
		return
	}
	s.logger.Info("Tick: scanned=%d reminders=%d failed=%d expired=%d deferred=%d errors=%d in %s",
		report.Scanned, report.RemindersSent, report.RemindersFailed, report.Expired, report.Deferred, report.Errors, report.Duration)
}

// Tick выполняет один проход по незавершенным кредитам
// Ошибки отдельных кредитов логируются и не прерывают проход
func (s *Scheduler) Tick(ctx context.Context) (TickReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return TickReport{}, ErrTickInProgress
	}
	defer s.running.Store(false)

	now := s.timeProvider.Now()
	report := TickReport{StartedAt: now}

	credits, err := s.snapshot(ctx, now)
	if err != nil {
		return report, err
	}
	report.Scanned = len(credits)

	var (
		mu      sync.Mutex
		configs = newConfigCache(s.configs)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, credit := range credits {
		credit := credit
		g.Go(func() error {
			result := s.process(gctx, credit, now, configs)

			mu.Lock()
			report.RemindersSent += result.RemindersSent
			report.RemindersFailed += result.RemindersFailed
			report.Expired += result.Expired
			report.Deferred += result.Deferred
			report.Errors += result.Errors
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = s.timeProvider.Now().Sub(now)
	s.metrics.TickCompleted(report.Duration, report.Scanned)
	return report, ctx.Err()
}

// snapshot выбирает все незавершенные кредиты, которым пора напомнить или истечь
func (s *Scheduler) snapshot(ctx context.Context, now time.Time) ([]*domain.MakeupCredit, error) {
	horizon := now.Add(time.Duration(domain.MaxReminderOffsetDays+1) * 24 * time.Hour)

	credits := make([]*domain.MakeupCredit, 0)
	for offset := 0; ; offset += s.cfg.BatchSize {
		page, err := s.ledger.Query(ctx, domain.CreditFilter{
			Statuses:  domain.NonTerminalStatuses,
			ExpiresTo: &horizon,
			Limit:     s.cfg.BatchSize,
			Offset:    offset,
		})
		if err != nil {
			return nil, err
		}
		credits = append(credits, page...)
		if len(page) < s.cfg.BatchSize {
			return credits, nil
		}
	}
}

// process напоминания и истечение одного кредита
func (s *Scheduler) process(ctx context.Context, credit *domain.MakeupCredit, now time.Time, configs *configCache) TickReport {
	var result TickReport

	if credit.Status == domain.CreditStatusAvailable && !credit.IsExpiryReached(now) {
		config, err := configs.get(ctx, credit.TenantID, credit.Category)
		if err != nil {
			s.logger.Error("Tick: failed to resolve config for credit=%s: %v", credit.ID, err)
			result.Errors++
		} else {
			s.remind(ctx, credit, config, now, &result)
		}
	}

	if credit.IsExpiryReached(now) {
		_, err := s.ledger.MarkExpired(ctx, credit.ID)
		switch {
		case err == nil:
			result.Expired++
		case errors.Is(err, ledger.ErrExpiryDeferred):
			result.Deferred++
		case errors.Is(err, ledger.ErrStaleVersion), errors.Is(err, ledger.ErrInvalidTransition):
			// Кредит изменился после выборки, следующий тик увидит актуальное состояние
			s.logger.Warn("Tick: credit=%s changed during tick: %v", credit.ID, err)
		default:
			s.logger.Error("Tick: failed to expire credit=%s: %v", credit.ID, err)
			result.Errors++
		}
	}

	return result
}

func (s *Scheduler) remind(ctx context.Context, credit *domain.MakeupCredit, config *domain.MakeupConfig, now time.Time, result *TickReport) {
	days := credit.DaysRemaining(now)

	for _, offset := range config.ReminderOffsets {
		if days != offset || credit.HasReminder(offset) {
			continue
		}

		if _, err := s.dispatcher.SendReminder(ctx, credit, offset); err != nil {
			s.logger.Warn("Tick: reminder offset=%d for credit=%s failed, will retry next tick: %v", offset, credit.ID, err)
			s.metrics.ReminderFailed()
			result.RemindersFailed++
			continue
		}

		if _, err := s.ledger.RecordReminder(ctx, credit.ID, offset); err != nil {
			s.logger.Error("Tick: reminder offset=%d for credit=%s sent but not recorded: %v", offset, credit.ID, err)
			result.Errors++
			continue
		}

		s.metrics.ReminderSent()
		result.RemindersSent++
	}
}

// configCache конфигурации на время одного тика
type configCache struct {
	resolver ConfigResolver
	mu       sync.Mutex
	configs  map[string]*domain.MakeupConfig
}

func newConfigCache(resolver ConfigResolver) *configCache {
	return &configCache{resolver: resolver, configs: make(map[string]*domain.MakeupConfig)}
}

func (c *configCache) get(ctx context.Context, tenantID, category string) (*domain.MakeupConfig, error) {
	key := tenantID + "/" + category

	c.mu.Lock()
	config, ok := c.configs[key]
	c.mu.Unlock()
	if ok {
		return config, nil
	}

	config, err := c.resolver.Resolve(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.configs[key] = config
	c.mu.Unlock()
	return config, nil
}
