package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opengestu/validele-sub000/internal/auth"
	"github.com/opengestu/validele-sub000/internal/cache"
	"github.com/opengestu/validele-sub000/internal/changefeed"
	"github.com/opengestu/validele-sub000/internal/config"
	"github.com/opengestu/validele-sub000/internal/db"
	"github.com/opengestu/validele-sub000/internal/grpcserver"
	"github.com/opengestu/validele-sub000/internal/kafka"
	"github.com/opengestu/validele-sub000/internal/lifecycle"
	"github.com/opengestu/validele-sub000/internal/logger"
	"github.com/opengestu/validele-sub000/internal/notification"
	"github.com/opengestu/validele-sub000/internal/payment"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/repository/memory"
	"github.com/opengestu/validele-sub000/internal/repository/postgresql"
	"github.com/opengestu/validele-sub000/internal/server"
	"github.com/opengestu/validele-sub000/internal/settlement"
	"github.com/opengestu/validele-sub000/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	lg := logger.New(cfg.App.LogLevel, cfg.App.IsLocal())
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("Service stopped with error", zap.Error(err))
	}
	lg.Info("Service gracefully stopped")
}

type stores struct {
	orders storage.OrderRepository
	txs    storage.TransactionRepository
	users  storage.UserRepository
	db     *db.Database
}

func openStores(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*stores, error) {
	if cfg.Storage.Driver == "memory" {
		lg.Warn("Using in-memory storage; data is lost on restart")
		mem := memory.NewStore()
		return &stores{orders: mem.Orders(), txs: mem.Transactions(), users: memory.NewUsers()}, nil
	}

	if cfg.Postgres.MigrateOnBoot {
		if err := db.Migrate(cfg.Postgres.URL()); err != nil {
			return nil, err
		}
		lg.Info("Database migrations applied")
	}
	database, err := db.NewDb(ctx, cfg.Postgres.DSN(), cfg.Postgres.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	return &stores{
		orders: postgresql.NewOrderRepo(database),
		txs:    postgresql.NewTransactionRepo(database),
		users:  postgresql.NewUserRepo(database),
		db:     database,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	st, err := openStores(ctx, cfg, lg)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}

	if cfg.Auth.AdminUsername != "" {
		created, err := st.users.EnsureUser(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			return fmt.Errorf("seed operator account: %w", err)
		}
		if created {
			lg.Info("Operator account created", zap.String("username", cfg.Auth.AdminUsername))
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	claimable := cache.NewClaimableCache(st.orders, lg.Named("claimable_cache"))
	if err := claimable.LoadInitialData(ctx, cfg.Lifecycle.ClaimableLimit*4); err != nil {
		lg.Warn("Claimable cache stays cold; listing falls back to the store", zap.Error(err))
	}

	var changes lifecycle.ChangePublisher
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		changes = changefeed.NewRedisPublisher(rdb, cfg.Redis.Channel)
		sub := changefeed.NewRedisSubscriber(rdb, cfg.Redis.Channel, lg.Named("changefeed"))
		g.Go(func() error {
			if err := sub.Run(gctx, claimable); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("changefeed: %w", err)
			}
			return nil
		})
	} else {
		changes = changefeed.NewLocal(claimable)
	}

	var producer kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewKafkaProducer(cfg.Kafka.Brokers)
	} else {
		producer = kafka.NewConsoleProducer(lg.Named("kafka"))
	}

	var (
		notifier  notification.Notifier
		auditSink server.AuditSink
		publisher *kafka.Publisher
	)
	if st.db != nil {
		outbox := postgresql.NewOutboxTaskRepo()
		notifier = kafka.NewOutboxNotifier(st.db, outbox, cfg.Kafka.NotificationsTopic)
		auditSink = server.NewOutboxAuditSink(st.db, outbox, repository.TopicAuditLogs)
		publisher = kafka.NewPublisher(st.db, outbox, producer, kafka.PublisherConfig{
			PollInterval: cfg.Outbox.PollInterval,
			BatchSize:    cfg.Outbox.BatchSize,
		}, lg.Named("outbox"))
		g.Go(func() error {
			publisher.Run(gctx)
			return nil
		})
	} else {
		notifier = kafka.NewProducerNotifier(producer, cfg.Kafka.NotificationsTopic)
		auditSink = server.NewLogAuditSink(lg)
		defer producer.Close()
	}

	dispatcher := notification.NewDispatcher(notifier, cfg.Notification.RatePerSecond, cfg.Notification.Burst,
		cfg.Lifecycle.AdminIDs, lg.Named("notifications"))

	gateway := payment.NewHTTPGateway(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.Timeout)
	settle := settlement.NewService(st.txs, gateway, lg.Named("settlement"))

	svc := lifecycle.NewService(lifecycle.Deps{
		Orders:     st.orders,
		Settlement: settle,
		Gateway:    gateway,
		Notifier:   dispatcher,
		Changes:    changes,
		Claimable:  claimable,
	}, lifecycle.Config{
		OperationTimeout:       cfg.Lifecycle.OperationTimeout,
		PaymentPollInterval:    cfg.Lifecycle.PaymentPollInterval,
		PaymentPollMaxAttempts: cfg.Lifecycle.PaymentPollMaxAttempts,
		ClaimableLimit:         cfg.Lifecycle.ClaimableLimit,
	}, lg.Named("lifecycle"))

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.App.Name)
	audit := server.NewAuditManager(cfg.Audit.Workers, cfg.Audit.BatchSize, cfg.Audit.FlushInterval, auditSink, lg.Named("audit"))

	httpSrv := server.New(svc, st.users, tokens, audit, server.Options{
		Addr:          cfg.HTTP.Addr,
		ReadTimeout:   cfg.HTTP.ReadTimeout,
		WriteTimeout:  cfg.HTTP.WriteTimeout,
		WebhookSecret: cfg.Auth.WebhookSecret,
		RatePerSecond: cfg.HTTP.RatePerSecond,
		Burst:         cfg.HTTP.Burst,
	}, lg.Named("http"))
	g.Go(func() error {
		return httpSrv.Run(gctx)
	})

	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcSrv = grpcserver.NewServer(svc, tokens, lg.Named("grpc"))
		g.Go(func() error {
			return grpcSrv.Serve(lis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("Shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer shutdownCancel()

		if grpcSrv != nil {
			grpcSrv.Stop(shutdownCtx)
		}
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			lg.Error("HTTP server shutdown failed", zap.Error(err))
		}
		if err := dispatcher.Close(shutdownCtx); err != nil {
			lg.Warn("Notifications still in flight at shutdown", zap.Error(err))
		}
		if publisher != nil {
			publisher.Shutdown()
		}
		return nil
	})

	lg.Info("Service started",
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.Bool("grpc", cfg.GRPC.Enabled),
		zap.String("storage", cfg.Storage.Driver),
		zap.Duration("operation_timeout", cfg.Lifecycle.OperationTimeout),
	)

	return g.Wait()
}
