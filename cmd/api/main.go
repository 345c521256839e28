package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/minseo-dev/qr-orders/internal/analytics"
	"github.com/minseo-dev/qr-orders/internal/config"
	"github.com/minseo-dev/qr-orders/internal/httpx"
	kafkax "github.com/minseo-dev/qr-orders/internal/kafka"
	"github.com/minseo-dev/qr-orders/internal/menu"
	"github.com/minseo-dev/qr-orders/internal/orders"
	"github.com/minseo-dev/qr-orders/internal/postgres"
	"github.com/minseo-dev/qr-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	createdProd.Start(ctx)
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	statusProd.Start(ctx)

	router := httpx.NewRouter()

	oh := &httpx.OrdersHandler{
		Store:         &orders.Repo{DB: db},
		Created:       createdProd,
		StatusChanged: statusProd,
		Redis:         rdb,
		Service:       cfg.ServiceName,
		Currency:      cfg.DefaultCurrency,
	}
	oh.Register(router)

	ah := &httpx.AnalyticsHandler{Store: &analytics.Repo{DB: db}}
	ah.Register(router)

	mh := &httpx.MenuHandler{Store: &menu.Repo{DB: db}}
	mh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)

	cancel() // stops producer loops, which flush and close
	createdProd.WaitClosed()
	statusProd.WaitClosed()
}
