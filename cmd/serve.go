package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching and AI endpoints over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default is :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := setup(ctx, true)
	defer d.Close()

	cfg := d.config.Server
	server := api.New(api.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
	}, d.matcher, d.assistant, d.store, d.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			d.logger.Fatal("http server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d.logger.Info("shutting down", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		d.logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
