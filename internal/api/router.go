package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/indipro/wsp/internal/audit"
	"github.com/indipro/wsp/internal/auth"
	"github.com/indipro/wsp/internal/company"
	"github.com/indipro/wsp/internal/focus"
	"github.com/indipro/wsp/internal/metrics"
	"github.com/indipro/wsp/internal/profile"
	"github.com/indipro/wsp/internal/ratelimit"
	"github.com/indipro/wsp/internal/task"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Profiles       *profile.Store
	Companies      *company.Store
	Tasks          *task.Store
	Unplanned      *task.UnplannedStore
	Focus          *focus.Store
	AuditStore     *audit.Store
	Collector      *audit.Collector
	Sessions       auth.SessionLookup
	LoginLimiter   *ratelimit.Limiter
	APILimiter     *ratelimit.Limiter
	Metrics        *metrics.Metrics
	DBPool         *pgxpool.Pool
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	r.Use(metricsMiddleware(deps.Metrics))

	// Handlers.
	recorder := &auditor{collector: deps.Collector, metrics: deps.Metrics}
	authH := newAuthHandler(deps.Profiles, deps.Metrics, recorder)
	users := newUsersHandler(deps.Profiles, deps.Companies)
	tasks := newTasksHandler(deps.Tasks, users, deps.Metrics, recorder)
	unplanned := newUnplannedHandler(deps.Unplanned, users, deps.Metrics, recorder)
	focusH := newFocusHandler(deps.Focus, recorder)
	exportH := newExportHandler(deps.Tasks, users, deps.Metrics)
	admin := newAdminHandler(deps.Profiles, deps.Companies, deps.AuditStore, recorder)

	// Health check.
	r.Get("/health", healthHandler(deps.DBPool))

	// Well-known manifest.
	r.Get("/.well-known/wsp.json", WellKnownHandler)

	// Metrics summary.
	if deps.Metrics != nil {
		r.Get("/metrics/summary", deps.Metrics.Handler())
	}

	// Login is unauthenticated but rate limited per client IP.
	r.Route("/api/v1/auth", func(ar chi.Router) {
		if deps.LoginLimiter != nil {
			onReject := func() {}
			if deps.Metrics != nil {
				onReject = func() { deps.Metrics.IncRateLimitRejection("login") }
			}
			ar.With(ratelimit.Middleware(deps.LoginLimiter, ratelimit.ByClientIP, onReject)).
				Post("/login", authH.Login)
		} else {
			ar.Post("/login", authH.Login)
		}

		ar.Group(func(sr chi.Router) {
			sr.Use(auth.SessionMiddleware(deps.Sessions))
			sr.Get("/me", authH.Me)
			sr.Post("/logout", authH.Logout)
			sr.Put("/password", authH.ChangePassword)
		})
	})

	// Session-authed routes.
	r.Route("/api/v1", func(ar chi.Router) {
		ar.Use(auth.SessionMiddleware(deps.Sessions))
		if deps.APILimiter != nil {
			onReject := func() {}
			if deps.Metrics != nil {
				onReject = func() { deps.Metrics.IncRateLimitRejection("api") }
			}
			ar.Use(ratelimit.Middleware(deps.APILimiter, ratelimit.ByUser, onReject))
		}

		ar.Get("/users", users.ListViewable)
		ar.Get("/users/{id}/permissions", users.Permissions)
		ar.Get("/users/{id}/week-context", users.WeekContext)

		ar.Get("/users/{id}/tasks", tasks.List)
		ar.Post("/users/{id}/tasks", tasks.Create)
		ar.Put("/tasks/{taskID}", tasks.Update)
		ar.Delete("/tasks/{taskID}", tasks.Delete)
		ar.Get("/users/{id}/stats", tasks.Stats)

		ar.Get("/users/{id}/unplanned", unplanned.List)
		ar.Post("/users/{id}/unplanned", unplanned.Create)
		ar.Put("/unplanned/{taskID}", unplanned.Update)
		ar.Delete("/unplanned/{taskID}", unplanned.Delete)
		ar.Post("/unplanned/{taskID}/plan", unplanned.Plan)

		ar.Get("/users/{id}/export", exportH.Download)

		ar.Get("/focus", focusH.Get)
		ar.Put("/focus", focusH.Put)

		// Superadmin management.
		ar.Route("/admin", func(sr chi.Router) {
			sr.Use(auth.SuperadminMiddleware())

			sr.Post("/users", admin.CreateUser)
			sr.Put("/users/{id}", admin.UpdateUser)
			sr.Delete("/users/{id}", admin.DeleteUser)

			sr.Post("/companies", admin.CreateCompany)
			sr.Get("/companies", admin.ListCompanies)
			sr.Delete("/companies/{id}", admin.DeleteCompany)

			sr.Get("/audit", admin.ListAuditEvents)
		})
	})

	return r
}

// healthHandler reports service liveness and database reachability.
func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := pool.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":   "degraded",
					"database": "error",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "connected",
		})
	}
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}
