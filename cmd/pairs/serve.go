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

	"github.com/aretw0/pairs"
	"github.com/aretw0/pairs/internal/cli"
	"github.com/aretw0/pairs/internal/config"
	httpAdapter "github.com/aretw0/pairs/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the browser game, the JSON API, an SSE event stream and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		streams := httpAdapter.NewStreamManager(logger)
		rt, err := cli.NewRuntime(cmd.Context(), cfg, logger, pairs.WithLifecycleHooks(streams.Hooks()))
		if err != nil {
			return err
		}
		defer rt.Close()

		origins, _ := cmd.Flags().GetStringSlice("cors-origin")
		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithSessionCodec(httpAdapter.NewSessionCodec(cfg.Session.Secret, cfg.Session.TTL, rt.Engine.Clock())),
			httpAdapter.WithValidation(cfg.OpenAPI.Validate),
		}
		if len(origins) > 0 {
			opts = append(opts, httpAdapter.WithAllowedOrigins(origins...))
		}
		if rt.Registry != nil {
			opts = append(opts, httpAdapter.WithMetrics(rt.Registry))
		}
		if cfg.Session.Secret == config.DevSecret {
			logger.Warn("session.secret is the development default; set PAIRS_SESSION_SECRET in production")
		}

		handler, err := httpAdapter.NewHandler(rt.Engine, opts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Pairs server", "addr", srv.Addr, "store", cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Pairs server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origins (default: any origin, no credentials)")
}
