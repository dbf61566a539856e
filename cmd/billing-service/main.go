package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/marktline/billing-service/internal/app/background"
	"github.com/marktline/billing-service/internal/config"
	deliveryhttp "github.com/marktline/billing-service/internal/delivery/http"
	"github.com/marktline/billing-service/internal/delivery/http/handlers"
	"github.com/marktline/billing-service/internal/infrastructure/gateway"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
	"github.com/marktline/billing-service/internal/infrastructure/metrics"
	"github.com/marktline/billing-service/internal/infrastructure/migrate"
	"github.com/marktline/billing-service/internal/infrastructure/postgres"
	"github.com/marktline/billing-service/internal/infrastructure/postgres/repository"
	"github.com/marktline/billing-service/internal/infrastructure/redis"
	billingUsecase "github.com/marktline/billing-service/internal/usecase/billing"
	commissionUsecase "github.com/marktline/billing-service/internal/usecase/commission"
	leadUsecase "github.com/marktline/billing-service/internal/usecase/lead"
	payoutUsecase "github.com/marktline/billing-service/internal/usecase/payout"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)
	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.BillingDB.MigrationsPath != "" {
		if err := migrate.Run(db, cfg.BillingDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v\n", err)
		}
	}

	// Init redis task lock
	redisClient := redis.NewClient(cfg.Redis)
	taskLock := redis.NewTaskLock(redisClient, time.Duration(cfg.Billing.TaskLockTTLSec)*time.Second)

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	pub := kafka.NewBillingPublisher(brokers, cfg.Kafka.Topic)

	billingMetrics := metrics.NewBillingMetrics()

	// Init payment gateway client
	gatewayClient := gateway.NewHTTPGatewayClient(cfg.Gateway, billingMetrics)

	// Init repositories
	leadRepo := repository.NewDefaultLeadRepository(db)
	commissionRepo := repository.NewDefaultCommissionRepository(db)
	sellerRepo := repository.NewDefaultSellerAccountRepository(db)
	subscriptionRepo := repository.NewDefaultSubscriptionRepository(db)
	paymentRepo := repository.NewDefaultPaymentRepository(db)
	listingRepo := repository.NewDefaultListingRepository(db)
	batchRepo := repository.NewDefaultPayoutBatchRepository(db)

	// Init usecases
	commissionUc := commissionUsecase.NewDefaultCommissionUsecase(
		commissionRepo,
		listingRepo,
		sellerRepo,
		pub,
		billingMetrics,
		cfg.Billing.CommissionDueDays,
	)
	leadUc := leadUsecase.NewDefaultLeadUsecase(
		leadRepo,
		listingRepo,
		sellerRepo,
		paymentRepo,
		gatewayClient,
		commissionUc,
		pub,
		billingMetrics,
	)
	billingUc := billingUsecase.NewDefaultBillingUsecase(
		commissionRepo,
		subscriptionRepo,
		paymentRepo,
		sellerRepo,
		gatewayClient,
		pub,
		billingMetrics,
		taskLock,
		&cfg.Billing,
	)
	payoutUc := payoutUsecase.NewDefaultPayoutUsecase(
		commissionRepo,
		sellerRepo,
		batchRepo,
		gatewayClient,
		pub,
		billingMetrics,
		&cfg.Billing,
	)

	// HTTP delivery
	e := deliveryhttp.NewRouter(
		handlers.NewLeadHandler(leadUc),
		handlers.NewCommissionHandler(commissionUc),
		handlers.NewBillingHandler(billingUc),
		handlers.NewPayoutHandler(payoutUc),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scheduled billing and payout runs
	backgroundTasks := background.NewBackgroundTasks(billingUc, payoutUc, &cfg.Billing)
	backgroundTasks.StartAll(ctx)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
		log.Printf("HTTP server started on %s\n", addr)
		if err := e.Start(addr); err != nil {
			log.Printf("http server stopped: %v\n", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v\n", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
