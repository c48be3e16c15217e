package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/indipro/wsp/internal/api"
	"github.com/indipro/wsp/internal/audit"
	"github.com/indipro/wsp/internal/company"
	"github.com/indipro/wsp/internal/config"
	"github.com/indipro/wsp/internal/crypto"
	"github.com/indipro/wsp/internal/focus"
	"github.com/indipro/wsp/internal/metrics"
	"github.com/indipro/wsp/internal/profile"
	"github.com/indipro/wsp/internal/ratelimit"
	"github.com/indipro/wsp/internal/task"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WSP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	cipher, err := crypto.NewCipher(cfg.Encryption.Key)
	if err != nil {
		return err
	}
	if cipher != nil {
		slog.Info("focus note encryption enabled")
	}

	profileStore := profile.NewStore(pool, cfg.Session.Duration)
	companyStore := company.NewStore(pool)
	taskStore := task.NewStore(pool)
	unplannedStore := task.NewUnplannedStore(pool)
	focusStore := focus.NewStore(pool, cipher)

	auditStore := audit.NewStore(pool)
	collector := audit.NewCollector(auditStore, cfg.Audit.BatchSize, cfg.Audit.FlushInterval)
	go collector.Start(ctx)

	loginLimiter := ratelimit.New(cfg.RateLimit.Login, cfg.RateLimit.Window)
	apiLimiter := ratelimit.New(cfg.RateLimit.API, cfg.RateLimit.Window)

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		stat := pool.Stat()
		return stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns()
	})

	router := api.NewRouter(api.RouterDeps{
		Profiles:       profileStore,
		Companies:      companyStore,
		Tasks:          taskStore,
		Unplanned:      unplannedStore,
		Focus:          focusStore,
		AuditStore:     auditStore,
		Collector:      collector,
		Sessions:       profile.NewAuthAdapter(profileStore),
		LoginLimiter:   loginLimiter,
		APILimiter:     apiLimiter,
		Metrics:        m,
		DBPool:         pool,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Expired sessions pile up until something sweeps them.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := profileStore.CleanExpiredSessions(ctx); err != nil {
					slog.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					slog.Info("cleaned expired sessions", "count", n)
				}
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	collector.Stop()

	return srv.Shutdown(shutdownCtx)
}
