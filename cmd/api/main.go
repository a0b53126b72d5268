package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	server "siam_tours/internal/adapters/http_server"
	"siam_tours/internal/adapters/identity"
	"siam_tours/internal/adapters/mailer"
	"siam_tours/internal/adapters/observability"
	redisad "siam_tours/internal/adapters/redis"
	"siam_tours/internal/app"
	"siam_tours/internal/domain"
	"siam_tours/internal/shared"
	"siam_tours/internal/storage/sqlstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("db.Ping failed")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection ok")

	repo, err := sqlstore.New(db, cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("repository")
	}

	// optional shared cache
	var cache domain.Cache
	if cfg.RedisEnabled() {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; running without shared cache")
		} else {
			cache = rc
			defer rc.Close()
		}
	}

	// outbound notifications; nil disables delivery
	var notifier domain.Notifier
	if cfg.MailerURL != "" {
		mc, err := mailer.New(cfg.MailerURL, cfg.MailerKey, cfg.MailerRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("mailer")
		}
		notifier = mc
	}

	verifier, err := identity.NewVerifier(cfg.JWTSecret, cfg.JWTPublicKey)
	if err != nil {
		log.Fatal().Err(err).Msg("identity verifier")
	}

	// services
	store := app.NewTranslationStore(repo, cache, cfg.TranslationsTTL)
	if err := store.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("translation warm-up failed; lookups fall back until the next fetch")
	}
	tours := app.NewTourService(repo, cache, cfg.ToursCacheTTL)
	currency := app.NewCurrencyResolver(cfg.EURRate)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Translations: store,
		Locales:      app.NewLocaleResolver(),
		Currency:     currency,
		Tours:        tours,
		Access:       app.NewAccessResolver(cfg.AdminEmails, repo),
		Notify:       app.NewNotificationService(notifier, repo, tours, currency),
		Identity:     verifier,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
