package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bhulekh/internal/domain"
	"bhulekh/internal/platform/metrics"
	"bhulekh/internal/platform/middleware"
)

// RouterConfig carries everything the route table needs. Handlers are built
// by the caller so tests can swap services behind them.
type RouterConfig struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Sessions  middleware.SessionResolver
	Auth      *AuthHandler
	Claims    *ClaimHandler
	Documents *DocumentHandler
	Dashboard *DashboardHandler
	Audit     *AuditHandler
	Regions   *RegionHandler

	Health         func(ctx context.Context) error
	RequestTimeout time.Duration
}

// NewRouter wires the public surface. Authorization is declared per route:
// RequireSession resolves the actor, RequireRole narrows by role, and
// jurisdiction filtering happens inside the services.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	session := middleware.RequireSession(cfg.Sessions, cfg.Logger)
	officers := middleware.RequireRole(domain.RoleMinistry, domain.RoleState, domain.RoleDistrict)

	r.Get("/healthz", handleHealth(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Latency(cfg.Metrics, "/auth"))
		r.Post("/auth/login", cfg.Auth.HandleLogin)
		r.With(session).Post("/auth/logout", cfg.Auth.HandleLogout)
		r.With(session).Get("/auth/me", cfg.Auth.HandleMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Latency(cfg.Metrics, "/claims"))
		r.Use(session)
		r.Get("/claims", cfg.Claims.HandleList)
		r.Post("/claims", cfg.Claims.HandleCreate)
		r.Get("/claims/export", cfg.Claims.HandleExport)
		r.Get("/claims/{id}", cfg.Claims.HandleGet)
		r.With(officers).Patch("/claims/{id}", cfg.Claims.HandlePatch)
		r.With(officers).Post("/claims/bulk-import", cfg.Claims.HandleImport)
		r.With(officers).Post("/claims/bulk-action", cfg.Claims.HandleBulkAction)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Latency(cfg.Metrics, "/documents"))
		r.Use(session)
		r.Get("/documents", cfg.Documents.HandleList)
		r.Post("/documents/upload", cfg.Documents.HandleUpload)
		r.Get("/documents/{id}/download", cfg.Documents.HandleDownload)
		r.Get("/ocr-review", cfg.Documents.HandlePendingReview)
		r.With(officers).Post("/documents/{id}/correct-ocr", cfg.Documents.HandleReview)
		r.With(officers).Post("/documents/{id}/retry-ocr", cfg.Documents.HandleRetry)
	})

	r.With(session).Get("/dashboard/stats", cfg.Dashboard.HandleStats)

	r.With(session, middleware.RequireRole(domain.RoleMinistry, domain.RoleState)).
		Get("/audit-log", cfg.Audit.HandleList)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Latency(cfg.Metrics, "/regions"))
		r.Get("/states", cfg.Regions.HandleStates)
		r.Get("/districts/{code}", cfg.Regions.HandleDistricts)
	})

	return r
}

func handleHealth(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
