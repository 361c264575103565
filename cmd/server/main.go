package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gigzone/backend/internal/config"
	"github.com/gigzone/backend/internal/db"
	"github.com/gigzone/backend/internal/goroutine"
	httpHandlers "github.com/gigzone/backend/internal/http/handlers"
	httpRouter "github.com/gigzone/backend/internal/http/router"
	"github.com/gigzone/backend/internal/logger"
	"github.com/gigzone/backend/internal/repository"
	"github.com/gigzone/backend/internal/service"
	"github.com/gigzone/backend/internal/storage"
	"github.com/gigzone/backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	documentStorage, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	gigRepo := repository.NewGigRepository(dbConn)
	applicationRepo := repository.NewApplicationRepository(dbConn)
	walletRepo := repository.NewWalletRepository(dbConn)
	withdrawalRepo := repository.NewWithdrawalRepository(dbConn)
	conversationRepo := repository.NewConversationRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	verificationRepo := repository.NewVerificationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Сервисы.
	cacheService := service.NewCacheService()
	authService := service.NewAuthService(userRepo, tokenManager)
	profileService := service.NewProfileService(userRepo, cacheService)
	gigService := service.NewGigService(gigRepo)
	applicationService := service.NewApplicationService(applicationRepo, gigRepo)
	paymentService := service.NewPaymentService(walletRepo, applicationRepo, gigRepo, userRepo)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo)
	conversationService := service.NewConversationService(conversationRepo, applicationRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, gigRepo, applicationRepo)
	reportService := service.NewReportService(reportRepo)
	verificationService := service.NewVerificationService(verificationRepo, userRepo, documentStorage)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	gigHandler := httpHandlers.NewGigHandler(gigService)
	applicationHandler := httpHandlers.NewApplicationHandler(applicationService)
	paymentHandler := httpHandlers.NewPaymentHandler(paymentService)
	withdrawalHandler := httpHandlers.NewWithdrawalHandler(withdrawalService)
	conversationHandler := httpHandlers.NewConversationHandler(conversationService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	reportHandler := httpHandlers.NewReportHandler(reportService)
	verificationHandler := httpHandlers.NewVerificationHandler(verificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, conversationService, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		gigHandler,
		applicationHandler,
		paymentHandler,
		withdrawalHandler,
		conversationHandler,
		reviewHandler,
		reportHandler,
		verificationHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
