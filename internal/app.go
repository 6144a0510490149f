package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"rental-search-service/internal/adapters/location"
	logger_adapter "rental-search-service/internal/adapters/logger"
	postgres_adapter "rental-search-service/internal/adapters/postgres"
	rabbitmq_adapter "rental-search-service/internal/adapters/rabbitmq"
	"rental-search-service/internal/adapters/rest"
	"rental-search-service/internal/adapters/sessionstore"
	"rental-search-service/internal/configs"
	"rental-search-service/internal/constants"
	"rental-search-service/internal/core/port"
	"rental-search-service/internal/core/searchfilter"
	"rental-search-service/internal/core/usecase"
	fluentlogger "rental-search-service/pkg/fluent_logger"
	"rental-search-service/pkg/postgres"
	"rental-search-service/pkg/rabbitmq/rabbitmq_common"
	"rental-search-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	searchBasePath  = "/search"
	shutdownTimeout = 15 * time.Second
)

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	apiServer     *rest.Server
	logger        port.LoggerPort

	backgroundWorkers map[string]port.BackgroundWorkerPort
}

// NewApp - composition root: здесь создаются и связываются все зависимости
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLevel, err := logger_adapter.ParseLevel(appConfig.StdoutLogger.Level)
	if err != nil {
		log.Printf("Warning: %v. Defaulting to 'info'.", err)
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    stdoutLevel,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentLevel, err := logger_adapter.ParseLevel(appConfig.FluentBit.Level)
		if err != nil {
			stdoutLogger.Warn("Unknown fluentbit log level, using info", port.Fields{"level": appConfig.FluentBit.Level})
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, fluentLevel)
		if err != nil {
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:            appConfig,
		fluentClient:      fluentClient,
		logger:            appLogger,
		backgroundWorkers: make(map[string]port.BackgroundWorkerPort),
	}

	// --- 2. ИНФРАСТРУКТУРА ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    appConfig.Database.MaxConns,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		application.closeResources()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	application.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool", nil)

	var inquiryNotifier port.InquiryNotifierPort = rabbitmq_adapter.NoopInquiryNotifier{}
	if appConfig.RabbitMQ.URL != "" {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager

		eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.SearchExchange,
			ExchangeType:             constants.SearchExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		application.eventProducer = eventProducer

		inquiryNotifier, err = rabbitmq_adapter.NewInquiryEventsAdapter(eventProducer, constants.RoutingKeyInquiryCreated)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		appLogger.Info("RabbitMQ Event Producer initialized", nil)
	} else {
		appLogger.Warn("RABBITMQ_URL is not set, inquiry events are disabled", nil)
	}

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	var sessionBackend port.SessionBackendPort
	switch appConfig.Session.Store {
	case configs.SessionStorePostgres:
		sessionBackend, err = postgres_adapter.NewSessionStorageBackend(dbPool)
	default:
		sessionBackend = sessionstore.NewMemoryBackend()
	}
	if err != nil {
		application.closeResources()
		return nil, fmt.Errorf("failed to create session storage: %w", err)
	}

	listingStorage, err := postgres_adapter.NewListingStorageAdapter(dbPool)
	if err != nil {
		application.closeResources()
		return nil, err
	}
	filterRepository, err := postgres_adapter.NewFilterRepository(dbPool)
	if err != nil {
		application.closeResources()
		return nil, err
	}
	inquiryRepository, err := postgres_adapter.NewInquiryRepository(dbPool)
	if err != nil {
		application.closeResources()
		return nil, err
	}
	appLogger.Info("All outgoing adapters initialized", port.Fields{"session_store": appConfig.Session.Store})

	// --- 4. ЯДРО ---
	registry := searchfilter.NewRegistry(sessionBackend, location.Factory(searchBasePath), searchfilter.RegistryConfig{
		IdleTTL: appConfig.Session.IdleTTL,
	}, baseLogger)

	janitor, err := searchfilter.NewJanitor(registry, appConfig.Session.JanitorInterval, baseLogger)
	if err != nil {
		application.closeResources()
		return nil, fmt.Errorf("failed to create session janitor: %w", err)
	}
	application.backgroundWorkers["Session Janitor"] = janitor

	findListingsUseCase := usecase.NewFindListingsUseCase(listingStorage)
	getFilterOptionsUseCase := usecase.NewGetFilterOptionsUseCase(filterRepository)
	getDictionariesUseCase := usecase.NewGetDictionariesUseCase(filterRepository)
	createInquiryUseCase := usecase.NewCreateInquiryUseCase(listingStorage, inquiryRepository, inquiryNotifier, appConfig.Inquiry.PhoneDefaultRegion)
	appLogger.Info("All use cases initialized", nil)

	// --- 5. REST API ---
	serverCfg := rest.ServerConfig{
		Port:           appConfig.HTTP.Port,
		AllowedOrigins: appConfig.HTTP.AllowedOrigins,
		SecureCookie:   appConfig.Session.SecureCookie,
		InquiryRateLimit: rest.RateLimitConfig{
			Requests: appConfig.Inquiry.RateLimit.Requests,
			Interval: appConfig.Inquiry.RateLimit.Interval,
		},
	}
	router := rest.NewRouter(serverCfg,
		rest.NewSearchFilterHandler(registry),
		rest.NewSearchHandler(registry, findListingsUseCase),
		rest.NewFilterOptionsHandler(getFilterOptionsUseCase, getDictionariesUseCase),
		rest.NewInquiryHandler(createInquiryUseCase),
		baseLogger,
	)
	application.apiServer = rest.NewServer(serverCfg, router, baseLogger)
	appLogger.Info("REST API server configured", nil)

	return application, nil
}

// Run запускает все компоненты и управляет их жизненным циклом
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, len(a.backgroundWorkers)+1)

	a.logger.Info("Application is starting...", nil)

	startWorker := func(name string, worker port.BackgroundWorkerPort) {
		defer wg.Done()
		workerLogger := a.logger.WithFields(port.Fields{"worker_name": name})
		workerLogger.Info("Starting background worker...", nil)

		if err := worker.Start(appCtx); err != nil {
			workerLogger.Error("Background worker stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
			return
		}
		workerLogger.Info("Background worker stopped gracefully", nil)
	}

	for name, worker := range a.backgroundWorkers {
		wg.Add(1)
		go startWorker(name, worker)
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	// Сначала перестаем принимать запросы, потом останавливаем фоновые процессы
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	cancelApp()
	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()

	a.closeResources()
	return runErr
}

// closeResources закрывает то, что успело открыться; безопасен при частичной инициализации
func (a *App) closeResources() {
	for name, worker := range a.backgroundWorkers {
		if err := worker.Close(); err != nil {
			a.logger.Error("Error closing background worker", err, port.Fields{"worker_name": name})
		}
	}
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed", nil)
	}

	a.logger.Info("Application shut down gracefully", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent уже может быть недоступен, пишем в stdout
			log.Printf("ERROR: Error closing fluent client: %v", err)
		}
	}
}
