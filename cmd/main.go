package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	approveCreditHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/approve_credit"
	bookCreditHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/book_credit"
	cancelCreditHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/cancel_credit"
	cancelGroupSessionHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/cancel_group_session"
	createGroupSessionHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/create_group_session"
	getCreditHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/get_credit"
	getGroupSessionHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/get_group_session"
	getMakeupConfigHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/get_makeup_config"
	listCreditsHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/list_credits"
	listPendingCreditsHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/list_pending_credits"
	publishCancellationHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/publish_cancellation"
	publishLessonUpdateHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/publish_lesson_update"
	rejectCreditHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/reject_credit"
	respondGroupSessionHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/respond_group_session"
	runSchedulerHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/run_scheduler"
	updateMakeupConfigHandler "github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers/update_makeup_config"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/config"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/consumer"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/events"
	configRepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/config"
	creditRepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/credit"
	groupRepo "github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/group"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/memory"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/infra/storage/migrator"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/console"
	lessonServiceClient "github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/lessonservice"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/sendgrid"
	studentServiceClient "github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/studentservice"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/telegram"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/twilio"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/scheduler/expiry"
	configService "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/config"
	groupService "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/group"
	ledgerService "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
	notifierService "github.com/dgervalla-ship-it/viamentor-sub004/internal/service/notifier"
	bookCreditUC "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/book_credit"
	issueCreditUC "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/issue_credit"
	validateCreditUC "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/validate_credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/dbmetrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/metrics"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/txmanager"
)

// domainMetrics рекордеры, которые получают ledger и планировщик
type domainMetrics interface {
	ledgerService.MetricsRecorder
	expiry.MetricsRecorder
}

// storage репозитории выбранного драйвера
type storage struct {
	credits   ledgerService.CreditRepository
	configs   configService.ConfigRepository
	sessions  groupService.SessionRepository
	txManager ledgerService.TransactionManager
	close     func()
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.NewWithFormat(cfg.Logs.File, cfg.Logs.Level, cfg.Logs.Format)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting makeup credit service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var recorder domainMetrics = metrics.Nop{}
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(ctx, cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Инициализируем интеграционных клиентов
	studentClient := studentServiceClient.NewClient(
		cfg.StudentService.URL,
		time.Duration(cfg.StudentService.Timeout)*time.Second,
		log,
	)
	lessonClient := lessonServiceClient.NewClient(
		cfg.LessonService.URL,
		time.Duration(cfg.LessonService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StudentService=%s, LessonService=%s)",
		cfg.StudentService.URL, cfg.LessonService.URL)

	channels, err := notificationChannels(cfg.Notifications, log)
	if err != nil {
		log.Fatal("Failed to initialize notification channels: %v", err)
	}

	// Инициализируем сервисы
	configSvc := configService.NewService(store.configs, log)
	ledgerSvc := ledgerService.NewService(store.credits, configSvc, store.txManager, recorder, log)
	groupSvc := groupService.NewService(store.sessions, ledgerSvc, log)
	notifierSvc, err := notifierService.NewService(studentClient, configSvc, channels, log)
	if err != nil {
		log.Fatal("Failed to initialize notifier: %v", err)
	}

	// Инициализируем use cases
	issueCreditUseCase := issueCreditUC.NewUseCase(ledgerSvc, configSvc, notifierSvc, log)
	validateCreditUseCase := validateCreditUC.NewUseCase(ledgerSvc, configSvc, notifierSvc, log)
	bookCreditUseCase := bookCreditUC.NewUseCase(
		ledgerSvc,
		configSvc,
		lessonClient,
		lessonClient,
		bookCreditUC.Options{
			AvailabilityTimeout: time.Duration(cfg.Booking.AvailabilityTimeoutMs) * time.Millisecond,
			RetryBase:           time.Duration(cfg.Booking.RetryBaseMs) * time.Millisecond,
			MaxRetries:          cfg.Booking.MaxRetries,
		},
		log,
	)

	// Шина событий и консьюмер
	bus := events.NewBus(cfg.Events.Buffer)
	eventConsumer := consumer.New(bus, issueCreditUseCase, bookCreditUseCase, log).
		WithRetry(time.Duration(cfg.Events.RetryBaseMs)*time.Millisecond, cfg.Events.MaxRetries)
	if err := eventConsumer.Start(ctx); err != nil {
		log.Fatal("Failed to start event consumer: %v", err)
	}

	// Планировщик истечения
	scheduler := expiry.New(
		ledgerSvc,
		notifierSvc,
		configSvc,
		recorder,
		expiry.Config{
			Interval:  cfg.Scheduler.Interval(),
			Workers:   cfg.Scheduler.Workers,
			BatchSize: cfg.Scheduler.BatchSize,
		},
		log,
	)
	if cfg.Scheduler.Enabled {
		scheduler.Start(ctx)
		log.Info("Expiry scheduler started (interval=%s, workers=%d)", cfg.Scheduler.Interval(), cfg.Scheduler.Workers)
	}

	// Инициализируем handlers
	publishCancellation := publishCancellationHandler.NewHandler(bus, log)
	publishLessonUpdate := publishLessonUpdateHandler.NewHandler(bus, log)
	listCredits := listCreditsHandler.NewHandler(ledgerSvc, log)
	listPendingCredits := listPendingCreditsHandler.NewHandler(validateCreditUseCase, log)
	getCredit := getCreditHandler.NewHandler(ledgerSvc, log)
	bookCredit := bookCreditHandler.NewHandler(bookCreditUseCase, log)
	approveCredit := approveCreditHandler.NewHandler(validateCreditUseCase, log)
	rejectCredit := rejectCreditHandler.NewHandler(validateCreditUseCase, log)
	cancelCredit := cancelCreditHandler.NewHandler(ledgerSvc, log)
	getMakeupConfig := getMakeupConfigHandler.NewHandler(configSvc, log)
	updateMakeupConfig := updateMakeupConfigHandler.NewHandler(configSvc, log)
	createGroupSession := createGroupSessionHandler.NewHandler(groupSvc, log)
	getGroupSession := getGroupSessionHandler.NewHandler(groupSvc, log)
	respondGroupSession := respondGroupSessionHandler.NewHandler(groupSvc, log)
	cancelGroupSession := cancelGroupSessionHandler.NewHandler(groupSvc, log)
	runScheduler := runSchedulerHandler.NewHandler(scheduler, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID, X-User-Role, X-Tenant-ID)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- События ---
	api.HandleFunc("/events/cancellations", publishCancellation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/events/lesson-updates", publishLessonUpdate.Handle).Methods(http.MethodPost)

	// --- Кредиты ---
	api.HandleFunc("/credits", listCredits.Handle).Methods(http.MethodGet)
	api.HandleFunc("/credits/pending", listPendingCredits.Handle).Methods(http.MethodGet)
	api.HandleFunc("/credits/{creditId}", getCredit.Handle).Methods(http.MethodGet)
	api.HandleFunc("/credits/{creditId}/book", bookCredit.Handle).Methods(http.MethodPost)
	api.HandleFunc("/credits/{creditId}/approve", approveCredit.Handle).Methods(http.MethodPost)
	api.HandleFunc("/credits/{creditId}/reject", rejectCredit.Handle).Methods(http.MethodPost)
	api.HandleFunc("/credits/{creditId}/cancel", cancelCredit.Handle).Methods(http.MethodPost)

	// --- Конфигурация ---
	api.HandleFunc("/makeup-config", getMakeupConfig.Handle).Methods(http.MethodGet)
	api.HandleFunc("/makeup-config/{category}", updateMakeupConfig.Handle).Methods(http.MethodPut)
	api.HandleFunc("/makeup-config/{category}", updateMakeupConfig.HandleDelete).Methods(http.MethodDelete)

	// --- Групповые занятия ---
	api.HandleFunc("/group-sessions", createGroupSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/group-sessions/{sessionId}", getGroupSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/group-sessions/{sessionId}/responses", respondGroupSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/group-sessions/{sessionId}/cancel", cancelGroupSession.Handle).Methods(http.MethodPost)

	// --- Администрирование ---
	api.HandleFunc("/admin/scheduler/run", runScheduler.Handle).Methods(http.MethodPost)

	// CORS оборачивает весь роутер: preflight OPTIONS не совпадает ни с одним Methods()
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderUserID, middleware.HeaderUserRole, middleware.HeaderTenantID},
		MaxAge:         cfg.CORS.MaxAge,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	scheduler.Stop()
	eventConsumer.Stop()
	bus.Close()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// openStorage поднимает хранилище по database.driver
func openStorage(
	ctx context.Context,
	cfg *config.Config,
	metricsCollector *metrics.Metrics,
	stopMetricsCh <-chan struct{},
	log *logger.Logger,
) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		return &storage{
			credits:   memory.NewCreditRepository(),
			configs:   memory.NewConfigRepository(),
			sessions:  memory.NewGroupRepository(),
			txManager: txmanager.Nop{},
			close:     func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		m, err := migrator.New(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := m.Up(ctx); err != nil {
			db.Close()
			return nil, err
		}
		version, _ := m.Version(ctx)
		log.Info("Database migrations applied (version=%d)", version)
	}

	store := &storage{close: func() { db.Close() }}

	if metricsCollector != nil {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		store.credits = creditRepo.NewRepository(wrappedDB)
		store.configs = configRepo.NewRepository(wrappedDB)
		store.sessions = groupRepo.NewRepository(wrappedDB)
		store.txManager = txmanager.NewTransactionManager(wrappedDB)
		return store, nil
	}

	// Инициализируем репозитории без метрик
	store.credits = creditRepo.NewRepository(db)
	store.configs = configRepo.NewRepository(db)
	store.sessions = groupRepo.NewRepository(db)
	store.txManager = txmanager.NewFromSQL(db)
	return store, nil
}

// notificationChannels собирает включенные каналы доставки
// Консоль подменяет email, если SendGrid выключен
func notificationChannels(cfg config.NotificationsConfig, log *logger.Logger) (notifierService.Channels, error) {
	var channels notifierService.Channels

	if cfg.Console {
		sender := console.NewSender(log)
		channels.Email = sender
		channels.SMS = sender
		channels.Telegram = sender
	}

	if cfg.SendGrid.Enabled {
		channels.Email = sendgrid.NewClient(cfg.SendGrid.APIKey, cfg.SendGrid.Host, cfg.SendGrid.FromName, cfg.SendGrid.FromEmail)
		log.Info("Email channel: SendGrid (from=%s)", cfg.SendGrid.FromEmail)
	}

	if cfg.Twilio.Enabled {
		channels.SMS = twilio.NewClient(
			cfg.Twilio.BaseURL,
			cfg.Twilio.AccountSID,
			cfg.Twilio.AuthToken,
			cfg.Twilio.From,
			time.Duration(cfg.Twilio.Timeout)*time.Second,
		)
		log.Info("SMS channel: Twilio (from=%s)", cfg.Twilio.From)
	}

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.ServerURL)
		if err != nil {
			return channels, fmt.Errorf("telegram: %w", err)
		}
		channels.Telegram = client
		log.Info("Telegram channel enabled")
	}

	return channels, nil
}
