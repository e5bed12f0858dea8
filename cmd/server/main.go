// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bhulekh/internal/audit"
	"bhulekh/internal/authz"
	"bhulekh/internal/claims"
	"bhulekh/internal/documents"
	"bhulekh/internal/identity"
	"bhulekh/internal/platform/config"
	"bhulekh/internal/platform/httpserver"
	"bhulekh/internal/platform/logger"
	"bhulekh/internal/platform/metrics"
	"bhulekh/internal/platform/postgres"
	platformredis "bhulekh/internal/platform/redis"
	"bhulekh/internal/regions"
	httptransport "bhulekh/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	var userStore identity.UserStore
	var claimStore claims.Store
	var docStore documents.Store
	var auditStore audit.Store
	var regionStore regions.Store

	if cfg.PostgresURL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		userStore = identity.NewPostgresUserStore(db)
		claimStore = claims.NewPostgresStore(db)
		docStore = documents.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
		regionStore = regions.NewPostgresStore(db)
	} else {
		log.Warn("no postgres url configured, using in-memory stores")
		userStore = identity.NewInMemoryUserStore()
		claimStore = claims.NewInMemoryStore()
		docStore = documents.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
		regionStore = regions.NewInMemoryStore()
	}

	var sessionStore identity.SessionStore
	var redisClient *platformredis.Client
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", "error", err)
			os.Exit(1)
		}
		sessionStore = identity.NewRedisSessionStore(redisClient.Client)
	} else {
		log.Warn("no redis url configured, using in-memory sessions")
		sessionStore = identity.NewInMemorySessionStore()
	}

	if err := regions.Seed(ctx, regionStore); err != nil {
		log.Error("region seed failed", "error", err)
		os.Exit(1)
	}

	recorder := audit.NewRecorder(auditStore, log, m)
	identitySvc := identity.NewService(userStore, sessionStore, recorder, cfg.SessionTTL)
	scopes := authz.NewResolver(regionStore)
	claimSvc := claims.NewService(claimStore, regionStore, scopes, recorder, m)

	var extractor documents.Extractor
	if vision, err := documents.NewVisionExtractor(ctx); err != nil {
		log.Warn("vision extractor unavailable, ocr jobs will fail until retried", "error", err)
		extractor = unavailableExtractor{}
	} else {
		defer vision.Close()
		extractor = vision
	}
	pipeline := documents.NewPipeline(docStore, extractor, m, log, cfg.OCRWorkers, cfg.OCRQueueSize, cfg.OCRTimeout)
	docSvc := documents.NewService(docStore, pipeline, recorder)

	go func() {
		if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("ocr pipeline stopped", "error", err)
		}
	}()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        m,
		Sessions:       identitySvc,
		Auth:           httptransport.NewAuthHandler(identitySvc, cfg.SessionTTL, cfg.CookieSecure),
		Claims:         httptransport.NewClaimHandler(claimSvc),
		Documents:      httptransport.NewDocumentHandler(docSvc),
		Dashboard:      httptransport.NewDashboardHandler(claimSvc, docSvc),
		Audit:          httptransport.NewAuditHandler(recorder),
		Regions:        httptransport.NewRegionHandler(regionStore),
		RequestTimeout: cfg.RequestTimeout,
		Health: func(ctx context.Context) error {
			if db != nil {
				if err := db.PingContext(ctx); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting bhulekh", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// unavailableExtractor stands in when no OCR credentials are configured.
// Documents fail extraction and stay retryable.
type unavailableExtractor struct{}

func (unavailableExtractor) ExtractText(context.Context, []byte, string) (string, float64, error) {
	return "", 0, errors.New("ocr extractor not configured")
}
