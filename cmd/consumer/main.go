package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opengestu/validele-sub000/internal/config"
	"github.com/opengestu/validele-sub000/internal/logger"
)

// The consumer prints notification and audit messages; it stands in for the
// SMS/push gateway in local setups.
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

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range []string{cfg.Kafka.NotificationsTopic, cfg.Kafka.AuditTopic} {
		g.Go(func() error {
			return consume(gctx, cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, topic, lg.With(zap.String("topic", topic)))
		})
	}
	if err := g.Wait(); err != nil {
		lg.Error("Consumer stopped with error", zap.Error(err))
	}
}

func consume(ctx context.Context, brokers []string, group, topic string, lg *zap.Logger) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			lg.Error("Error closing Kafka reader", zap.Error(err))
		}
	}()

	lg.Info("Consumer connected", zap.Strings("brokers", brokers))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				lg.Info("Shutdown signal received, stopping consumer")
				return nil
			}
			lg.Warn("Error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(5 * time.Second):
			}
			continue
		}

		lg.Info("Message received",
			zap.Time("timestamp", m.Time),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.ByteString("key", m.Key),
			zap.ByteString("value", m.Value),
		)
	}
}
