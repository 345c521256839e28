package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/minseo-dev/qr-orders/internal/config"
	kafkax "github.com/minseo-dev/qr-orders/internal/kafka"
	"github.com/minseo-dev/qr-orders/internal/notifier"
	"github.com/minseo-dev/qr-orders/internal/orders"
	"github.com/minseo-dev/qr-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{Redis: rdb, Name: cfg.ServiceName + "-notifier"}

	group := getenv("NOTIFIER_GROUP", "order-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	for _, topic := range []string{orders.TopicOrderCreated, orders.TopicOrderStatusChanged} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		go func(topic string) {
			log.Info("notifier consumer started", "group", group, "topic", topic, "workers", workers)
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.Error("consumer exit", "topic", topic, "error", err)
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down notifier")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
