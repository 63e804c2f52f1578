package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hybridshare"
	"github.com/dmitrymomot/hybridshare/pkg/logger"
	"github.com/dmitrymomot/hybridshare/pkg/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo HTTP server",
	Long:  `Starts a demo application sharing flash values across redirects with the configured driver.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		log := logger.New(
			logger.WithEnvironment(cfg.Env, "hybridshare"),
			logger.WithContextValue("request_id", middleware.RequestIDKey),
		)
		logger.SetAsDefault(log)

		return serve(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on, overrides HTTP_ADDR")
}

func serve(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	var (
		cacheStore hybridshare.CacheStore
		checks     []func(context.Context) error
	)
	if cfg.Share.CacheStore == hybridshare.StoreRedis {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		storage := redis.NewStorageWithConfig(client, cfg.Redis)
		defer storage.Close()

		cacheStore = storage
		checks = append(checks, redis.Healthcheck(client))
	}

	a, err := newApp(cfg, log, cacheStore, checks...)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: a.routes(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server",
			slog.String("addr", cfg.Addr),
			logger.Driver(cfg.Share.Driver.String()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown did not complete", logger.Error(err))
		return srv.Close()
	}
	log.Info("server stopped")
	return nil
}
