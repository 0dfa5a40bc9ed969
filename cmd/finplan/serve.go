package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/finplan/internal/api"
	"github.com/rgehrsitz/finplan/internal/cache"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning engine over HTTP",
	Long: `Serve the planning engine as a JSON API.

Settings are read from the environment and can be overridden by flags:
  FINPLAN_ADDR             listen address (default :8080)
  FINPLAN_REDIS_ADDR       redis address for the simulation cache (default in-memory)
  FINPLAN_CACHE_TTL        cache entry lifetime (default 1h)
  FINPLAN_REQUEST_TIMEOUT  per-request engine deadline (default 30s)
  FINPLAN_MAX_TRIALS       largest simulation one request may run (default 100000)
  LOG_LEVEL                debug, info, warn or error (default info)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides FINPLAN_ADDR)")
	serveCmd.Flags().String("redis", "", "Redis address (overrides FINPLAN_REDIS_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.NewServerConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if redisAddr, _ := cmd.Flags().GetString("redis"); redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}

	// --debug wins over LOG_LEVEL.
	if !cmd.Flags().Changed("debug") {
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(level)
		} else {
			logger.WithField("level", cfg.LogLevel).Warn("ignoring unknown LOG_LEVEL")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resultCache, closeCache, err := newResultCache(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer closeCache()

	handler := api.NewServer(logger,
		api.WithCache(resultCache, cfg.CacheTTL),
		api.WithRequestTimeout(cfg.RequestTimeout),
		api.WithMaxTrials(cfg.MaxTrials),
	)
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Addr).Info("finplan API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

// newResultCache connects to redis when an address is configured and falls
// back to an in-process cache otherwise.
func newResultCache(ctx context.Context, redisAddr string) (cache.Cache, func(), error) {
	if redisAddr == "" {
		logger.Debug("using in-memory simulation cache")
		return cache.NewMemoryCache(), func() {}, nil
	}

	rc, err := cache.NewRedisCache(ctx, redisAddr)
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("redis", redisAddr).Info("using redis simulation cache")
	return rc, func() {
		if err := rc.Close(); err != nil {
			logger.WithError(err).Warn("closing redis client")
		}
	}, nil
}
