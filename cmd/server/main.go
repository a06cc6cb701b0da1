// Command server runs the vehicle registration registry: registration,
// verification, and secondary lookup over HTTP. Stores are selected from the
// environment: PostgreSQL when DATABASE_URL is set, Redis for lookup records
// when REDIS_URL is set, in-memory otherwise.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"motoreg/internal/lookup"
	lookupmetrics "motoreg/internal/lookup/metrics"
	lookupservice "motoreg/internal/lookup/service"
	lookupstore "motoreg/internal/lookup/store"
	"motoreg/internal/platform/config"
	"motoreg/internal/platform/database"
	"motoreg/internal/platform/httpserver"
	"motoreg/internal/platform/logger"
	"motoreg/internal/platform/middleware"
	platformredis "motoreg/internal/platform/redis"
	"motoreg/internal/registration"
	regmetrics "motoreg/internal/registration/metrics"
	regservice "motoreg/internal/registration/service"
	regstore "motoreg/internal/registration/store"
	"motoreg/internal/verification"
	verifmetrics "motoreg/internal/verification/metrics"
	verifservice "motoreg/internal/verification/service"
	"motoreg/migrations"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := applyMigrations(ctx, db); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		regStore   regservice.Store
		regTx      regservice.StoreTx
		lookStore  lookupservice.Store
		verifStore verifservice.Store
	)
	if db != nil {
		pg := regstore.NewPostgres(db)
		regStore = pg
		verifStore = pg
		regTx = newRegistrationPostgresTx(db)
		lookStore = lookupstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		mem := regstore.NewInMemory()
		regStore = mem
		verifStore = mem
		lookStore = lookupstore.NewInMemory()
		log.Info("using in-memory stores")
	}
	if redisClient != nil {
		lookStore = lookupstore.NewRedis(redisClient.Client)
		log.Info("using redis lookup store")
	}

	regOpts := []regservice.Option{
		regservice.WithLogger(log),
		regservice.WithMetrics(regmetrics.New()),
	}
	if regTx != nil {
		regOpts = append(regOpts, regservice.WithTx(regTx))
	}
	regService := registration.NewService(regStore, cfg.AdminPassword, regOpts...)

	verifService := verification.NewService(verifStore,
		verifservice.WithLogger(log),
		verifservice.WithMetrics(verifmetrics.New()))

	lookService := lookup.NewService(lookStore,
		lookupservice.WithLogger(log),
		lookupservice.WithMetrics(lookupmetrics.New()))

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestID)

	registration.NewHandler(regService, log).Register(router)
	verification.NewHandler(verifService, lookService, log).Register(router)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting motoreg server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// applyMigrations runs the embedded schema statements. They are written to be
// idempotent (CREATE TABLE IF NOT EXISTS) so startup can apply them every time.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	stmts, err := migrations.Statements()
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
