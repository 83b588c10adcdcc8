package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pstagner/toruscope/internal/torusd"
	"github.com/pstagner/toruscope/pkg/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve frames and benchmarks over HTTP",
	Long:  "Starts an HTTP server that renders single frames on demand, launches benchmark runs, and lists completed runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := torusd.NewRunStore()
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           torusd.NewHTTPServer(store, cfg).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", serveAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "error", err)
				stop()
			}
		}()

		<-ctx.Done()
		logger.Info("shutdown requested")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "http-addr", ":8080", "HTTP listen address")
}
