package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fenrir/internal/config"
	"fenrir/internal/facade"
	"fenrir/internal/httpapi"
	"fenrir/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	tomb "gopkg.in/tomb.v2"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "fenrir-server",
		Short: "Runs the fenrir matching engine behind an HTTP/JSON facade.",
		RunE:  run,
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (optional)")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	f := facade.New()
	for _, pair := range cfg.InitialMarkets {
		if _, err := f.CreateMarket(pair); err != nil {
			return fmt.Errorf("creating initial market %s: %w", pair.String(), err)
		}
		log.Info().Str("pair", pair.String()).Msg("initial market created")
	}

	reg := metrics.NewRegistry(prometheus.DefaultRegisterer)
	router := httpapi.NewRouter(f, reg)

	srv := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	t, ctx := tomb.WithContext(ctx)

	t.Go(func() error {
		log.Info().Str("address", cfg.ListenAddress).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	t.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	return nil
}
