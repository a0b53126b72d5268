package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"siam_tours/internal/adapters/observability"
	redisad "siam_tours/internal/adapters/redis"
	"siam_tours/internal/app"
	"siam_tours/internal/domain"
	"siam_tours/internal/shared"
	"siam_tours/internal/storage/sqlstore"
)

func main() {
	file := flag.String("file", "", "CSV file with key_name,locale,value[,is_active]")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}
	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open csv")
	}
	entries, err := app.ParseTranslationCSV(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("parse csv")
	}

	log.Info().
		Str("file", *file).
		Int("rows", len(entries)).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	db, err := sql.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo, err := sqlstore.New(db, cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("repository")
	}

	// The import drops the shared redis snapshot so the next instance whose
	// in-memory catalog expires reads the database. Running instances keep
	// their own copy for up to one TTL, or until POST /admin/translations/invalidate.
	var cache domain.Cache
	if cfg.RedisEnabled() {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	store := app.NewTranslationStore(repo, cache, cfg.TranslationsTTL)

	rep, err := app.NewTranslationImporter(repo, store, cfg.ImportWorkers).Import(ctx, entries)
	if err != nil {
		log.Error().Err(err).Msg("import aborted")
		os.Exit(1)
	}
	log.Info().Int("total", rep.Total).Int("failed", rep.Failed).Msg("import completed")
	if rep.Failed > 0 {
		os.Exit(1)
	}
}
