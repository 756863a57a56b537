package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/cli/config"
	controller "github.com/secmon-lab/ethiq/pkg/controller/http"
	"github.com/secmon-lab/ethiq/pkg/repository"
	"github.com/secmon-lab/ethiq/pkg/usecase"
	"github.com/secmon-lab/ethiq/pkg/utils/async"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		catalogCfg config.Catalog
		slackCfg   config.Slack
		metricsCfg config.Metrics
	)

	flags := joinFlags(
		serverCfg.Flags(),
		catalogCfg.Flags(),
		slackCfg.Flags(),
		metricsCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := serverCfg.Validate(); err != nil {
				return err
			}
			if err := slackCfg.Validate(); err != nil {
				return err
			}

			logger.Info("Starting ethiq server",
				slog.Any("server", serverCfg),
				slog.Any("catalog", catalogCfg),
				slog.Any("slack", slackCfg),
				slog.Any("metrics", metricsCfg),
			)

			catalog, err := catalogCfg.Configure(ctx)
			if err != nil {
				return err
			}

			collector, metricsHandler, err := metricsCfg.Configure()
			if err != nil {
				return err
			}

			var registryOpts []usecase.RegistryOption
			if collector != nil {
				registryOpts = append(registryOpts, usecase.WithObserver(collector))
			}
			registry := usecase.NewRegistry(repository.NewMemory(), registryOpts...)
			if err := registry.Load(ctx, catalog); err != nil {
				return err
			}

			var serverOpts []controller.ServerOption
			if collector != nil {
				overview, err := registry.Overview(ctx)
				if err != nil {
					return err
				}
				collector.Refresh(overview)
				registry.Subscribe(collector.HandleChange)
				serverOpts = append(serverOpts, controller.WithMetricsHandler(metricsHandler))
			}

			notifier, err := slackCfg.ConfigureOptional(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if notifier != nil {
				registry.Subscribe(notifier.HandleChange)
			}

			server := controller.NewServer(ctx, serverCfg.Addr, registry, serverOpts...)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server error")
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logger.Info("Shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				// Pending Slack notifications
				if err := async.Wait(shutdownCtx); err != nil {
					logger.Warn("Notifications still pending at shutdown", "error", err)
				}

				logger.Info("Server shutdown complete")
				return nil
			})

			return eg.Wait()
		},
	}
}
