package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edudash/edudash/internal/jobs"
	"github.com/edudash/edudash/pkg/cache"
	"github.com/edudash/edudash/pkg/config"
	"github.com/edudash/edudash/pkg/logger"
	"github.com/edudash/edudash/pkg/session"
	"github.com/edudash/edudash/pkg/store"
	"github.com/edudash/edudash/pkg/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.WithError(err).Fatal("edudash exited with error")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Logger)
	ctx = logger.WithFields(ctx, logrus.Fields{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})
	log := logger.Logger(ctx)

	if err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		Enabled:        cfg.Telemetry.Enabled,
	}); err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("failed to flush telemetry")
		}
	}()

	if err := telemetry.InitStoreMetrics(telemetry.GetMeter(cfg.App.Name)); err != nil {
		return fmt.Errorf("failed to initialize store metrics: %w", err)
	}

	cacheClient, err := cache.New(&cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if closer, ok := cacheClient.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.WithError(err).Warn("failed to close cache")
			}
		}()
	}

	st, err := newStore(cfg, cacheClient)
	if err != nil {
		return err
	}
	if err := st.EnsureInitialized(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	sess, err := session.New(ctx, st.User)
	if err != nil {
		return err
	}
	if user := sess.User(); user != nil {
		log.WithField("email", user.Email).Info("signed in user restored")
	} else {
		log.Info("no user signed in")
	}

	// Assistant settings are only validated here, by config.Validate.
	// Chat callers build their own client with assistant.New.
	log.WithField("driver", cfg.Assistant.Driver).Info("assistant configured")

	if !cfg.Jobs.AuditEnabled {
		log.Info("background jobs disabled, waiting for shutdown")
		<-ctx.Done()
		return nil
	}

	mgr := jobs.NewPeriodicTaskManager()
	// nothing else in this process writes through st, so there is no lock to share
	jobs.NewOrphanAuditJob(nil, st, cfg.Jobs.AuditInterval, telemetry.GetStoreMetrics()).
		AddToPeriodicTaskManager(mgr)

	log.Info("starting background jobs")
	if err := mgr.RunAll(ctx); err != nil {
		return fmt.Errorf("periodic tasks stopped: %w", err)
	}
	log.Info("shutting down")
	return nil
}

func newStore(cfg *config.AppConfig, c cache.Cache) (*store.Store, error) {
	policy, err := store.ParseDeletePolicy(cfg.Store.OnCourseDelete)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithKeyPrefix(cfg.Store.KeyPrefix),
		store.WithDeletePolicy(policy),
		store.WithMetrics(telemetry.GetStoreMetrics()),
	}
	if cfg.Store.SeedFile != "" {
		seed, err := store.LoadSeedFile(cfg.Store.SeedFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, store.WithSeed(seed))
	}
	return store.New(c, opts...), nil
}
