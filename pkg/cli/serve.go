package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/cli/config"
	controller "github.com/m-mizutani/labpush/pkg/controller/http"
	"github.com/m-mizutani/labpush/pkg/infra/metrics"
	"github.com/m-mizutani/labpush/pkg/infra/push"
	"github.com/m-mizutani/labpush/pkg/usecase"
	"github.com/m-mizutani/labpush/pkg/utils/errs"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		fileCfg      config.File
		serverCfg    config.Server
		gitlabCfg    config.GitLab
		transportCfg config.Transport
		sentryCfg    config.Sentry
	)

	var flags []cli.Flag
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, gitlabCfg.Flags()...)
	flags = append(flags, transportCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, fileCfg.Apply(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting labpush server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("gitlab", gitlabCfg),
				slog.Any("transport", transportCfg),
				slog.Bool("async_dispatch", serverCfg.AsyncDispatch),
			)

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			factory, err := transportCfg.Factory()
			if err != nil {
				return err
			}

			// A transport that fails to initialize is not fatal. The server keeps
			// running and every delivery reports transport_uninitialized.
			handle := push.NewHandle(factory)
			if err := handle.Init(ctx); err != nil {
				errs.Handle(ctx, err)
				logger.Warn("Push transport is not available", slog.String("transport", transportCfg.Kind))
			}

			recorder := metrics.NewRecorder()
			webhookUC := usecase.NewWebhook(
				usecase.NewNotifier(handle),
				usecase.WithRecorder(recorder),
			)

			opts := []controller.Option{
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(gitlabCfg.WebhookSecret),
				controller.WithAsyncDispatch(serverCfg.AsyncDispatch),
				controller.WithTransportStatus(handle.Name),
			}
			if serverCfg.Metrics {
				opts = append(opts, controller.WithMetricsHandler(recorder.Handler()))
			}

			server, err := controller.NewServer(ctx, webhookUC, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
