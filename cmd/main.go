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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/cancel_booking"
	convertWaitlistHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/convert_waitlist"
	createBookingHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/create_booking"
	createSlotHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/create_slot"
	enqueueWaitlistHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/enqueue_waitlist"
	getAvailableSlotsHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/get_booking"
	getBranchBookingsHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/get_branch_bookings"
	getUserBookingsHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/get_user_bookings"
	markAttendanceHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/mark_attendance"
	recordAssessmentHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/record_assessment"
	removeWaitlistHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/remove_waitlist"
	rescheduleBookingHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/reschedule_booking"
	updateAssessmentHandler "github.com/edspace/lesson-booking-service/internal/api/handlers/update_assessment"
	"github.com/edspace/lesson-booking-service/internal/api/middleware"
	"github.com/edspace/lesson-booking-service/internal/config"
	assessmentRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/assessment"
	bookingRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/booking"
	slotRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/slot"
	waitlistRepo "github.com/edspace/lesson-booking-service/internal/infra/storage/waitlist"
	auditServiceClient "github.com/edspace/lesson-booking-service/internal/integrations/auditservice"
	catalogServiceClient "github.com/edspace/lesson-booking-service/internal/integrations/catalogservice"
	notifyServiceClient "github.com/edspace/lesson-booking-service/internal/integrations/notifyservice"
	assessmentsService "github.com/edspace/lesson-booking-service/internal/service/assessments"
	bookingsService "github.com/edspace/lesson-booking-service/internal/service/bookings"
	"github.com/edspace/lesson-booking-service/internal/service/monthlyguard"
	"github.com/edspace/lesson-booking-service/internal/service/policy"
	slotsService "github.com/edspace/lesson-booking-service/internal/service/slots"
	cancelBookingUC "github.com/edspace/lesson-booking-service/internal/usecase/cancel_booking"
	createBookingUC "github.com/edspace/lesson-booking-service/internal/usecase/create_booking"
	markAttendanceUC "github.com/edspace/lesson-booking-service/internal/usecase/mark_attendance"
	rescheduleBookingUC "github.com/edspace/lesson-booking-service/internal/usecase/reschedule_booking"
	waitlistUC "github.com/edspace/lesson-booking-service/internal/usecase/waitlist"
	"github.com/edspace/lesson-booking-service/pkg/dbmetrics"
	"github.com/edspace/lesson-booking-service/pkg/logger"
	"github.com/edspace/lesson-booking-service/pkg/metrics"
	"github.com/edspace/lesson-booking-service/pkg/simpletxmanager"
	"github.com/edspace/lesson-booking-service/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting lesson-booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	auditClient := auditServiceClient.NewClient(
		cfg.AuditService.URL,
		time.Duration(cfg.AuditService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s, NotifyService=%s, AuditService=%s)",
		cfg.CatalogService.URL, cfg.NotifyService.URL, cfg.AuditService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository    *bookingRepo.Repository
		slotRepository       *slotRepo.Repository
		waitlistRepository   *waitlistRepo.Repository
		assessmentRepository *assessmentRepo.Repository
	)

	// Интерфейс transaction manager для usecases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		assessmentRepository = assessmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		waitlistRepository = waitlistRepo.NewRepository(db)
		assessmentRepository = assessmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Доменные сервисы
	monthlyGuard := monthlyguard.NewGuard(bookingRepository, cfg.Booking.AllowMultiplePerMonth, log)
	policyEngine := policy.NewEngine()

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		catalogClient,
		log,
	)
	slotSvc := slotsService.NewService(
		slotRepository,
		catalogClient,
		&slotsService.RealTimeProvider{},
		log,
	)
	assessmentSvc := assessmentsService.NewService(
		assessmentRepository,
		bookingRepository,
		slotRepository,
		auditClient,
		log,
	)

	// Use cases
	waitlistUseCase := waitlistUC.NewUseCase(
		waitlistRepository,
		slotRepository,
		bookingRepository,
		monthlyGuard,
		catalogClient,
		notifyClient,
		auditClient,
		txMgr,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		monthlyGuard,
		catalogClient,
		notifyClient,
		auditClient,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		policyEngine,
		waitlistUseCase,
		notifyClient,
		auditClient,
		txMgr,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		monthlyGuard,
		catalogClient,
		policyEngine,
		waitlistUseCase,
		notifyClient,
		auditClient,
		txMgr,
		log,
	)
	markAttendanceUseCase := markAttendanceUC.NewUseCase(
		bookingRepository,
		slotRepository,
		auditClient,
		txMgr,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	markAttendance := markAttendanceHandler.NewHandler(markAttendanceUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBranchBookings := getBranchBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(slotSvc, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	enqueueWaitlist := enqueueWaitlistHandler.NewHandler(waitlistUseCase, log)
	removeWaitlist := removeWaitlistHandler.NewHandler(waitlistUseCase, log)
	convertWaitlist := convertWaitlistHandler.NewHandler(waitlistUseCase, log)
	recordAssessment := recordAssessmentHandler.NewHandler(assessmentSvc, log)
	updateAssessment := updateAssessmentHandler.NewHandler(assessmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// PROTECTED ROUTES (требуют X-User-ID header)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/attendance", markAttendance.Handle).Methods(http.MethodPut)

	// --- История и расписание ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/branches/{branchId}/bookings", getBranchBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/branches/{branchId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)

	// --- Очередь ожидания ---
	protected.HandleFunc("/waiting-list", enqueueWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waiting-list/convert-to-booking", convertWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waiting-list/{slotId}", removeWaitlist.Handle).Methods(http.MethodDelete)

	// --- Оценки ---
	protected.HandleFunc("/assessments", recordAssessment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/assessments/{assessmentId}", updateAssessment.Handle).Methods(http.MethodPut)

	// Фоновая чистка просроченных записей очереди ожидания
	stopSweepCh := make(chan struct{})
	go func() {
		interval := time.Duration(cfg.Waitlist.SweepIntervalMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("Waitlist sweep started with interval %s", interval)
		for {
			select {
			case <-ticker.C:
				if _, err := waitlistUseCase.Sweep(context.Background()); err != nil {
					log.Error("Waitlist sweep failed: %v", err)
				}
			case <-stopSweepCh:
				return
			}
		}
	}()

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopSweepCh)
	log.Info("Waitlist sweep stopped")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
