package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"signalviz/internal/assessment/handler"
	"signalviz/internal/assessment/service"
	"signalviz/internal/assessment/store"
	"signalviz/internal/auth"
	"signalviz/internal/jwttoken"
	"signalviz/internal/platform/config"
	"signalviz/internal/platform/httpserver"
	"signalviz/internal/platform/logger"
	"signalviz/internal/platform/metrics"
	"signalviz/internal/ratelimit"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recordStore, closeStore, err := store.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init record store: %w", err)
	}

	policy, err := loadPolicy(cfg)
	if err != nil {
		return fmt.Errorf("load authorization policy: %w", err)
	}
	if policy.Size() == 0 {
		log.Warn("authorization policy is empty, no login will succeed")
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "signalviz", "signalviz")
	authService := auth.NewService(policy, jwtService, cfg.TokenTTL(), log)
	loginLimiter := ratelimit.New(cfg.LoginRateLimit, cfg.LoginRateWindow())
	assessmentService := service.New(recordStore, log, m)

	router := chi.NewRouter()
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("signalviz api is running"))
	})
	router.Handle("/metrics", promhttp.Handler())
	auth.NewHandler(authService, log, m, loginLimiter).Register(router)
	handler.New(assessmentService, log, m, jwttoken.NewJWTServiceAdapter(jwtService)).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		if closeStore != nil {
			if err := closeStore(shutdownCtx); err != nil {
				log.Warn("store close failed", "error", err.Error())
			}
		}
		return nil
	})

	return g.Wait()
}

func loadPolicy(cfg *config.Config) (*auth.AuthorizationPolicy, error) {
	if cfg.AuthorizedIDsFile != "" {
		return auth.LoadPolicyFile(cfg.AuthorizedIDsFile)
	}
	return auth.NewPolicy(cfg.AuthorizedIDs), nil
}
