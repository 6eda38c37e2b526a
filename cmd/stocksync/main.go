package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/notify"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/remote"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/stock"
	"gitlab.ozon.dev/pupkingeorgij/stocksync/internal/syncengine"
)

const notifyMaxRetries = 10

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	zl := logger.New(cfg.Debug)
	defer func() { _ = zl.Sync() }()

	database, err := db.NewDb(ctx, cfg.DB.DSN())
	if err != nil {
		zl.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close()

	opRepo := postgresql.NewOperationRepo(database)
	logRepo := postgresql.NewSyncLogRepo(database)
	trackerRepo := postgresql.NewTrackerRepo(database)
	queueRepo := postgresql.NewPendingNotificationRepo(database)
	tokenRepo := postgresql.NewTokenRepo(database)
	salesRepo := postgresql.NewSalesRecordRepo(database)
	userRepo := postgresql.NewUserRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo(cfg.Worker.OutboxMaxAttempts)

	producer := kafka.NewWriterProducer(cfg.Kafka.Brokers, zl)
	auditor := audit.NewLogger(database, logRepo, outboxRepo, cfg.Kafka.AuditTopic, zl)
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.Worker.OutboxInterval,
		BatchSize:    cfg.Worker.OutboxBatchSize,
		MaxAttempts:  cfg.Worker.OutboxMaxAttempts,
	}, zl)

	transport := notify.NewKafkaTransport(producer)
	notifier := notify.NewService(transport, trackerRepo, queueRepo, notifyMaxRetries, zl)
	drainer := notify.NewDrainer(transport, queueRepo, notify.DrainerConfig{
		PollInterval: cfg.Worker.NotifyInterval,
		BatchSize:    20,
	}, zl)

	accounts := cache.NewAccountCache(tokenRepo, zl)
	if err := accounts.LoadInitialData(ctx); err != nil {
		zl.Warn("account cache priming failed, names will load lazily", zap.Error(err))
	}

	ledger := stock.NewPostgresLedger(database, zl)
	remoteClient := remote.NewHTTPClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, zl)

	engine := syncengine.NewEngine(
		opRepo, salesRepo, tokenRepo, ledger, remoteClient,
		auditor, notifier, accounts,
		syncengine.RetryPolicy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialDelay:    cfg.Retry.InitialDelay,
			MaxDelay:        cfg.Retry.MaxDelay,
			ExponentialBase: cfg.Retry.ExponentialBase,
			JitterEnabled:   cfg.Retry.JitterEnabled,
			RevalidateAfter: cfg.Retry.RevalidateAfter,
		},
		zl,
	)

	srv := server.New(engine, opRepo, logRepo, userRepo, zl)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		publisher.Run(ctx)
		return nil
	})

	g.Go(func() error {
		drainer.Run(ctx)
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Worker.ProcessInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				result, err := engine.ProcessDueOperations(ctx, cfg.Worker.ProcessBatchSize)
				if err != nil {
					zl.Error("processing cycle failed", zap.Error(err))
					continue
				}
				if result.Processed > 0 {
					zl.Info("processing cycle finished",
						zap.Int("processed", result.Processed),
						zap.Int("succeeded", result.Succeeded),
						zap.Int("failed", result.Failed))
				}
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Worker.ReconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				result, err := engine.Reconcile(ctx, "", cfg.Worker.ReconcileLimit)
				if err != nil {
					zl.Error("reconciliation cycle failed", zap.Error(err))
					continue
				}
				zl.Info("reconciliation cycle finished",
					zap.Int("checked", result.TotalChecked),
					zap.Int("discrepancies", result.DiscrepanciesFound),
					zap.Int("auto_fixed", result.AutoFixed))
			}
		}
	})

	g.Go(func() error {
		return srv.Run(cfg.HTTPPort)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	zl.Info("stocksync started", zap.String("http_port", cfg.HTTPPort))

	if err := g.Wait(); err != nil {
		zl.Fatal("service exited with error", zap.Error(err))
	}
	zl.Info("stocksync stopped")
}
