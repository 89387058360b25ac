package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"clipshare/cfg"
	"clipshare/metrics"
	"clipshare/svc/api"
	"clipshare/svc/auth"
	"clipshare/svc/db"
	"clipshare/svc/lim"
	"clipshare/svc/session"
	"clipshare/svc/svc"
	"clipshare/svc/util"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		util.Fatal().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	if err := cfg.Validate(c); err != nil {
		util.Fatal().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	defer c.Wipe()
	util.InitLog(c.LogLevel, c.Environment == "development")
	util.Info().Msg("starting clipshare API")
	metrics.Init()

	sqlDB, err := db.NewSQLiteWithConfig(c.DatabasePath, c.DBMaxOpenConns, c.DBMaxIdleConns, c.DBQueryTimeout)
	if err != nil {
		util.Fatal().Err(err).Msg("failed to initialize database")
		os.Exit(1)
	}
	defer sqlDB.Close()
	util.Info().Str("path", c.DatabasePath).Msg("database initialized")

	var sessions session.Store
	if c.RedisURL != "" {
		sessions, err = session.NewRedis(c.RedisURL, c)
		if err != nil {
			if c.Environment == "production" {
				util.Fatal().Err(err).Msg("CRITICAL: Redis required when REDIS_URL is set in production")
				os.Exit(1)
			}
			util.Warn().Err(err).Msg("redis unavailable, falling back to in-memory sessions")
		} else {
			util.Info().Msg("redis session store connected")
		}
	}
	if sessions == nil {
		sessions, err = session.NewMemory(c.SessionStoreSize)
		if err != nil {
			util.Fatal().Err(err).Msg("failed to create session store")
			os.Exit(1)
		}
		util.Info().Int("size", c.SessionStoreSize).Msg("in-memory session store initialized")
	}
	defer sessions.Close()

	hasher, err := auth.NewHasher(c.Argon2Time, c.Argon2Memory, c.Argon2Parallelism, []byte(c.Pepper.Value()))
	if err != nil {
		util.Fatal().Err(err).Msg("failed to initialize hasher")
		os.Exit(1)
	}

	account := svc.NewAccount(sqlDB, sessions, hasher, c)
	clipboard := svc.NewClipboard(sqlDB, c)

	limiter := lim.New(c.RateLimit.RPM, c.RateLimit.Burst)
	defer limiter.Stop()
	util.Info().
		Int("rpm", c.RateLimit.RPM).
		Int("burst", c.RateLimit.Burst).
		Msg("rate limiter initialized")

	server := api.NewServer(c, account, clipboard, limiter, sqlDB)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	quitWAL := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		db.StartWALMaintenance(sqlDB.DB(), quitWAL)
		return nil
	})
	g.Go(func() error {
		util.Info().Str("port", c.Port).Str("environment", c.Environment).Msg("server starting")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		util.Info().Msg("shutting down gracefully...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			util.Error().Err(err).Msg("server shutdown error")
		}
		close(quitWAL)
		return nil
	})
	if err := g.Wait(); err != nil {
		util.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
	util.Info().Msg("shutdown complete")
}
