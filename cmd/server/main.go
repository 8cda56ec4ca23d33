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

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	clubhandler "affilia/internal/club/handler"
	clubservice "affilia/internal/club/service"
	clubstore "affilia/internal/club/store"
	licencehandler "affilia/internal/licence/handler"
	"affilia/internal/licence/payment"
	licenceservice "affilia/internal/licence/service"
	licencestore "affilia/internal/licence/store"

	"affilia/internal/antiforgery"
	"affilia/internal/capability"
	"affilia/internal/platform/config"
	"affilia/internal/platform/httpserver"
	"affilia/internal/platform/logger"
	"affilia/internal/platform/metrics"
	platformredis "affilia/internal/platform/redis"
	"affilia/internal/storage"
	httptransport "affilia/internal/transport/http"
	audit "affilia/pkg/platform/audit"
	auditpublisher "affilia/pkg/platform/audit/publisher"
	auditmemory "affilia/pkg/platform/audit/store/memory"
	auditpostgres "affilia/pkg/platform/audit/store/postgres"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		clubs      clubstore.Store
		licences   licencestore.Store
		auditStore audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := storage.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
		clubs = clubstore.NewPostgres(db)
		licences = licencestore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
		clubs = clubstore.NewInMemoryStore()
		licences = licencestore.NewInMemoryStore()
		auditStore = auditmemory.NewInMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()
	publisher := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(256),
		auditpublisher.WithLogger(log),
	)
	defer publisher.Close()

	authz := &capability.Authorizer{}
	tokens := antiforgery.New(cfg.AntiForgerySigningKey, cfg.AntiForgeryTTL)

	clubSvc, err := clubservice.New(clubs,
		clubservice.WithLogger(log),
		clubservice.WithMetrics(m),
		clubservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		log.Error("failed to build club service", "error", err)
		os.Exit(1)
	}
	licenceSvc, err := licenceservice.New(licences, clubs,
		payment.NewStatusOracle(licences), authz,
		licenceservice.WithLogger(log),
		licenceservice.WithMetrics(m),
		licenceservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		log.Error("failed to build licence service", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:          log,
		Validator:       capability.NewValidator(cfg.AuthSigningKey),
		Redis:           redisClient,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	},
		licencehandler.New(licenceSvc, tokens, log),
		clubhandler.New(clubSvc, authz, tokens, log),
	)

	apiSrv := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting admission server", "addr", cfg.Addr)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("api shutdown failed", "error", err)
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics shutdown failed", "error", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
