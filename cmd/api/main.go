package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "property_reviews/internal/adapters/http_server"
	"property_reviews/internal/adapters/observability"
	"property_reviews/internal/app"
	"property_reviews/internal/shared"
	"property_reviews/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ApprovalBackend).Msg("approval store init failed")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("approval store close failed")
		}
	}()

	svc := app.NewServices(cfg, store)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: svc.Queries, A: svc.Approvals, P: svc.Places})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return observability.Serve(gctx, httpSrv) })
	if ms := observability.NewMetricsServer(cfg.MetricsAddr, reg); ms != nil {
		g.Go(func() error { return observability.Serve(gctx, ms) })
	}

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("persistence", store.Kind()).
		Bool("hostaway_live", cfg.HostawayLive()).
		Msg("API starting")

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
