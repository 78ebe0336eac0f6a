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

	cancelBookingHandler "github.com/agendly/appointment-service/internal/api/handlers/cancel_booking"
	createAvailabilityHandler "github.com/agendly/appointment-service/internal/api/handlers/create_availability"
	createBookingHandler "github.com/agendly/appointment-service/internal/api/handlers/create_booking"
	deactivateAvailabilityHandler "github.com/agendly/appointment-service/internal/api/handlers/deactivate_availability"
	deleteAvailabilityHandler "github.com/agendly/appointment-service/internal/api/handlers/delete_availability"
	deleteBookingHandler "github.com/agendly/appointment-service/internal/api/handlers/delete_booking"
	getAvailabilityHandler "github.com/agendly/appointment-service/internal/api/handlers/get_availability"
	getBookingHandler "github.com/agendly/appointment-service/internal/api/handlers/get_booking"
	getUserHandler "github.com/agendly/appointment-service/internal/api/handlers/get_user"
	listAvailabilitiesHandler "github.com/agendly/appointment-service/internal/api/handlers/list_availabilities"
	listBookingsHandler "github.com/agendly/appointment-service/internal/api/handlers/list_bookings"
	rateBookingHandler "github.com/agendly/appointment-service/internal/api/handlers/rate_booking"
	registerUserHandler "github.com/agendly/appointment-service/internal/api/handlers/register_user"
	updateAvailabilityHandler "github.com/agendly/appointment-service/internal/api/handlers/update_availability"
	updateBookingHandler "github.com/agendly/appointment-service/internal/api/handlers/update_booking"
	verifyCredentialsHandler "github.com/agendly/appointment-service/internal/api/handlers/verify_credentials"
	"github.com/agendly/appointment-service/internal/api/middleware"
	"github.com/agendly/appointment-service/internal/config"
	availabilityRepo "github.com/agendly/appointment-service/internal/infra/storage/availability"
	bookingRepo "github.com/agendly/appointment-service/internal/infra/storage/booking"
	customerRepo "github.com/agendly/appointment-service/internal/infra/storage/customer"
	serviceRepo "github.com/agendly/appointment-service/internal/infra/storage/service"
	tenantRepo "github.com/agendly/appointment-service/internal/infra/storage/tenant"
	userRepo "github.com/agendly/appointment-service/internal/infra/storage/user"
	availabilitiesService "github.com/agendly/appointment-service/internal/service/availabilities"
	bookingsService "github.com/agendly/appointment-service/internal/service/bookings"
	usersService "github.com/agendly/appointment-service/internal/service/users"
	createAvailabilityUC "github.com/agendly/appointment-service/internal/usecase/create_availability"
	createBookingUC "github.com/agendly/appointment-service/internal/usecase/create_booking"
	updateAvailabilityUC "github.com/agendly/appointment-service/internal/usecase/update_availability"
	updateBookingUC "github.com/agendly/appointment-service/internal/usecase/update_booking"
	"github.com/agendly/appointment-service/pkg/dbmetrics"
	"github.com/agendly/appointment-service/pkg/logger"
	"github.com/agendly/appointment-service/pkg/metrics"
	"github.com/agendly/appointment-service/pkg/mq"
	"github.com/agendly/appointment-service/pkg/simpletxmanager"
	"github.com/agendly/appointment-service/pkg/txmanager"
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

	log.Info("Starting appointment-service...")
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

	// Публикация доменных событий (если включена).
	// Интерфейсы присваиваются только при включённом AMQP, чтобы
	// выключенный publisher оставался настоящим nil.
	var bookingEvents createBookingUC.EventPublisher
	var cancelEvents bookingsService.EventPublisher

	if cfg.AMQP.Enabled {
		publisher, err := mq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer publisher.Close()

		bookingEvents = publisher
		cancelEvents = publisher
		log.Info("Event publishing enabled (exchange=%s)", cfg.AMQP.Exchange)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		tenantRepository       *tenantRepo.Repository
		customerRepository     *customerRepo.Repository
		serviceRepository      *serviceRepo.Repository
		userRepository         *userRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		tenantRepository = tenantRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		tenantRepository = tenantRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, cancelEvents, log)
	availabilitySvc := availabilitiesService.NewService(availabilityRepository, log)
	userSvc := usersService.NewService(userRepository, tenantRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		tenantRepository,
		customerRepository,
		serviceRepository,
		txMgr,
		bookingEvents,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(bookingRepository, txMgr, log)
	createAvailabilityUseCase := createAvailabilityUC.NewUseCase(
		availabilityRepository,
		tenantRepository,
		txMgr,
		log,
	)
	updateAvailabilityUseCase := updateAvailabilityUC.NewUseCase(availabilityRepository, txMgr, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rateBooking := rateBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)

	createAvailability := createAvailabilityHandler.NewHandler(createAvailabilityUseCase, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(updateAvailabilityUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	listAvailabilities := listAvailabilitiesHandler.NewHandler(availabilitySvc, log)
	deactivateAvailability := deactivateAvailabilityHandler.NewHandler(availabilitySvc, log)
	deleteAvailability := deleteAvailabilityHandler.NewHandler(availabilitySvc, log)

	registerUser := registerUserHandler.NewHandler(userSvc, log)
	verifyCredentials := verifyCredentialsHandler.NewHandler(userSvc, log)
	getUser := getUserHandler.NewHandler(userSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix; все маршруты требуют X-Tenant-ID header
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/rating", rateBooking.Handle).Methods(http.MethodPatch)

	// --- Слоты доступности ---
	api.HandleFunc("/availabilities", createAvailability.Handle).Methods(http.MethodPost)
	api.HandleFunc("/availabilities", listAvailabilities.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availabilities/{availabilityId}", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availabilities/{availabilityId}", updateAvailability.Handle).Methods(http.MethodPut)
	api.HandleFunc("/availabilities/{availabilityId}", deleteAvailability.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/availabilities/{availabilityId}/deactivate", deactivateAvailability.Handle).Methods(http.MethodPatch)

	// --- Пользователи ---
	api.HandleFunc("/users", registerUser.Handle).Methods(http.MethodPost)
	api.HandleFunc("/users/verify", verifyCredentials.Handle).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}", getUser.Handle).Methods(http.MethodGet)

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
