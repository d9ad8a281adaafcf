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

	addShoeHandler "github.com/m04kA/strike-booking/internal/api/handlers/add_shoe"
	getConfirmationHandler "github.com/m04kA/strike-booking/internal/api/handlers/get_confirmation"
	getDraftHandler "github.com/m04kA/strike-booking/internal/api/handlers/get_draft"
	openDraftHandler "github.com/m04kA/strike-booking/internal/api/handlers/open_draft"
	removeShoeHandler "github.com/m04kA/strike-booking/internal/api/handlers/remove_shoe"
	submitBookingHandler "github.com/m04kA/strike-booking/internal/api/handlers/submit_booking"
	updateFieldHandler "github.com/m04kA/strike-booking/internal/api/handlers/update_field"
	updateShoeSizeHandler "github.com/m04kA/strike-booking/internal/api/handlers/update_shoe_size"
	"github.com/m04kA/strike-booking/internal/api/middleware"
	"github.com/m04kA/strike-booking/internal/config"
	confirmationRepo "github.com/m04kA/strike-booking/internal/infra/storage/confirmation"
	"github.com/m04kA/strike-booking/internal/integrations/bookingapi"
	confirmationsService "github.com/m04kA/strike-booking/internal/service/confirmations"
	draftsService "github.com/m04kA/strike-booking/internal/service/drafts"
	submitBookingUC "github.com/m04kA/strike-booking/internal/usecase/submit_booking"
	"github.com/m04kA/strike-booking/pkg/dbmetrics"
	"github.com/m04kA/strike-booking/pkg/logger"
	"github.com/m04kA/strike-booking/pkg/metrics"
	"github.com/m04kA/strike-booking/pkg/mq"
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

	log.Info("Starting strike-booking...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopBackgroundCh := make(chan struct{})

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

	// Репозиторий подтверждений (с метриками или без)
	var confirmationRepository *confirmationRepo.Repository
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopBackgroundCh)
		log.Info("Database metrics collection started")
		confirmationRepository = confirmationRepo.NewRepository(wrappedDB)
	} else {
		confirmationRepository = confirmationRepo.NewRepository(db)
	}

	// Клиент внешнего сервиса бронирования
	bookingClient := bookingapi.NewClient(
		cfg.BookingAPI.URL,
		cfg.BookingAPI.APIKey,
		time.Duration(cfg.BookingAPI.Timeout)*time.Second,
		log,
	)
	log.Info("Booking API client initialized (url=%s, timeout=%ds)", cfg.BookingAPI.URL, cfg.BookingAPI.Timeout)

	// Публикация событий (опционально)
	var publisher submitBookingUC.EventPublisher
	if cfg.Events.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange, cfg.Metrics.ServiceName)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
		log.Info("Event publisher initialized (exchange=%s)", cfg.Events.Exchange)
	}

	// Метрики бронирований передаются только при включённых метриках
	var submissionMetrics submitBookingUC.MetricsRecorder
	if metricsCollector != nil {
		submissionMetrics = metricsCollector
	}

	// Инициализируем сервисы
	draftSvc := draftsService.NewService(log)
	confirmationSvc := confirmationsService.NewService(confirmationRepository, log)

	// Брошенные черновики и незабранные состояния навигации удаляются по TTL
	sessionTTL := time.Duration(cfg.Session.TTL) * time.Second
	sweepInterval := time.Duration(cfg.Session.SweepInterval) * time.Second
	draftSvc.StartExpiry(sessionTTL, sweepInterval, stopBackgroundCh)
	confirmationSvc.StartExpiry(sessionTTL, sweepInterval, stopBackgroundCh)
	log.Info("Session state expiry started (ttl=%ds, interval=%ds)", cfg.Session.TTL, cfg.Session.SweepInterval)

	// Инициализируем use cases
	submitBookingUseCase := submitBookingUC.NewUseCase(
		draftSvc,
		bookingClient,
		confirmationSvc,
		publisher,
		submissionMetrics,
		log,
	)

	// Инициализируем handlers
	openDraft := openDraftHandler.NewHandler(draftSvc, log)
	getDraft := getDraftHandler.NewHandler(draftSvc, log)
	updateField := updateFieldHandler.NewHandler(draftSvc, log)
	addShoe := addShoeHandler.NewHandler(draftSvc, log)
	updateShoeSize := updateShoeSizeHandler.NewHandler(draftSvc, log)
	removeShoe := removeShoeHandler.NewHandler(draftSvc, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	getConfirmation := getConfirmationHandler.NewHandler(confirmationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, все маршруты привязаны к сессии браузера
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Session(cfg.Session.CookieName, cfg.Session.Secure))

	// --- Форма бронирования ---
	api.HandleFunc("/booking", openDraft.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking", getDraft.Handle).Methods(http.MethodGet)
	api.HandleFunc("/booking/fields", updateField.Handle).Methods(http.MethodPatch)

	// --- Обувь ---
	api.HandleFunc("/booking/shoes", addShoe.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking/shoes/{shoeId}", updateShoeSize.Handle).Methods(http.MethodPut)
	api.HandleFunc("/booking/shoes/{shoeId}", removeShoe.Handle).Methods(http.MethodDelete)

	// --- Отправка и подтверждение ---
	api.HandleFunc("/booking/submit", submitBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/confirmation", getConfirmation.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые задачи (метрики connection pool, очистка сессий)
	close(stopBackgroundCh)

	log.Info("Server stopped gracefully")
}
