// menusync upserts a local store menu definition into the menu tables.
// IDs are deterministic, so re-running with unchanged input writes the same
// rows again instead of duplicating them.
//
//	menusync -store dodam [-dir stores]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/minseo-dev/qr-orders/internal/config"
	"github.com/minseo-dev/qr-orders/internal/menu"
	"github.com/minseo-dev/qr-orders/internal/postgres"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg := config.Load()

	store := flag.String("store", "dodam", "store slug to sync")
	dir := flag.String("dir", cfg.MenuStoreDir, "directory holding <slug>.json store files")
	flag.Parse()

	file, err := menu.LoadStoreFile(*dir, *store)
	if err != nil {
		log.Error("load store file failed", "store", *store, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	syncer := &menu.Syncer{
		DB:              db,
		AssetBaseURL:    cfg.MenuAssetBaseURL,
		DefaultCurrency: cfg.DefaultCurrency,
	}
	cats, items, err := syncer.Sync(ctx, file)
	if err != nil {
		log.Error("menu sync failed", "store", file.Slug, "error", err)
		os.Exit(1)
	}
	log.Info("menu synced", "store", file.Slug, "categories", cats, "items", items)
}
