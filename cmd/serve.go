package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"safescan/internal/api"
	"safescan/internal/api/handler/v1handler"
	"safescan/internal/config"
	"safescan/internal/ratelimit"
	"safescan/internal/scan"
	"safescan/pkg/logger"
	"safescan/pkg/signals/dexscreener"
	"safescan/pkg/signals/ens"
	"safescan/pkg/signals/goplus"
	"safescan/pkg/signals/sourcify"
	"safescan/pkg/urlresolver"
)

// buildScanner wires the signal clients and the resolver into a Scanner.
func buildScanner(ctx context.Context, cfg *config.Config) scan.Scanner {
	httpClient := &http.Client{Timeout: cfg.Scan.SignalTimeout}

	ensClient, err := ens.Dial(cfg.Upstream.EthRPCURL, cfg.Upstream.ENSRegistry)
	if err != nil {
		logger.Fatal(ctx, "could not connect to ethereum rpc", zap.Error(err))
	}

	deps := scan.Deps{
		GoPlus:      goplus.New(httpClient, cfg.Upstream.GoPlusBaseURL),
		DexScreener: dexscreener.New(httpClient, cfg.Upstream.DexScreenerBaseURL),
		Sourcify:    sourcify.New(httpClient, cfg.Upstream.SourcifyBaseURL),
		ENS:         ensClient,
		Resolver: urlresolver.New(urlresolver.Options{
			MaxRedirects: cfg.Scan.MaxRedirects,
			HopTimeout:   cfg.Scan.HopTimeout,
		}, nil),
	}

	return scan.New(deps, scan.NewOptions(cfg))
}

func setupServer(ctx context.Context, cfg *config.Config) func(ctx context.Context) {
	server := api.NewServer(api.Deps{
		Deps: v1handler.Deps{
			Scanner: buildScanner(ctx, cfg),
			Limiter: ratelimit.New(ratelimit.NewOptions(cfg)),
		},
	}, api.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting webserver...")
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the scanning API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			stopWebserver := setupServer(ctx, cfg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
