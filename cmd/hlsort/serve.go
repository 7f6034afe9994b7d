package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alorle/hls-sorter/handlers"
	"github.com/alorle/hls-sorter/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sorted playlists over HTTP",
		Long: `Start an HTTP server answering GET /playlist.m3u8?url=<master>&stream=...&audio=...&iframe=...
with the sorted master playlist. The server stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, cleanup, err := ctx.dependencies(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			logger := deps.Logger

			handler, err := handlers.SetupRoutes(deps)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = cfg.Addr()
			}
			server := &http.Server{
				Addr:         addr,
				Handler:      handler,
				ReadTimeout:  cfg.HTTP.ReadTimeout.Std(),
				WriteTimeout: cfg.HTTP.WriteTimeout.Std(),
				IdleTimeout:  60 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("http server listening", "addr", server.Addr, "plan", deps.Rewriter.Plan().String())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				return err
			case <-sigCtx.Done():
			}

			logger.Info("shutdown signal received, shutting down gracefully")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", "error", err)
			}

			if cfg.Metrics.Textfile != "" {
				if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
					logger.Warn("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
				}
			}

			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides http.address and http.port")

	return cmd
}
