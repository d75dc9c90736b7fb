package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/pkg/dlsrpc"
	"github.com/duckworthlewis/dlc/server/internal/api"
	"github.com/duckworthlewis/dlc/server/internal/auth"
	"github.com/duckworthlewis/dlc/server/internal/config"
	"github.com/duckworthlewis/dlc/server/internal/metrics"
	"github.com/duckworthlewis/dlc/server/internal/notify"
	"github.com/duckworthlewis/dlc/server/internal/rpc"
	"github.com/duckworthlewis/dlc/server/internal/store"
	"github.com/duckworthlewis/dlc/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)

	slog.Info("dlc-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"grpc_port", cfg.Server.GRPCPort,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"match_ttl", cfg.Server.Matches.TTL,
		"default_category", cfg.Server.Category().String(),
		"webhooks", len(cfg.Server.Webhooks),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Match store with background TTL eviction.
	st := store.New(cfg.Server.Matches.TTL)
	go st.Run(ctx)

	reg := metrics.New(st.Count)
	notifier := notify.New(cfg.Server.Webhooks)

	var category atomic.Int32
	category.Store(int32(cfg.Server.Category()))

	// WebSocket hub: pushes the board every interval and after each change.
	hub := ws.New(st, cfg.Server.BoardInterval)
	go hub.Run(ctx)

	// Settings that can change without a restart. Ports, auth and the TTL
	// are read once.
	go func() {
		err := config.Watch(ctx, *configPath, func(c *config.Config) {
			level.Set(c.Server.Level())
			category.Store(int32(c.Server.Category()))
			notifier.SetWebhooks(c.Server.Webhooks)
			hub.SetInterval(c.Server.BoardInterval)
		})
		if err != nil {
			slog.Warn("config watch disabled", "err", err)
		}
	}()

	guard := auth.New(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	if cfg.Server.Auth.Mode == "apikey" && !guard.Enabled() {
		slog.Warn("auth mode is apikey but the key is empty; all calls allowed",
			"key_env", cfg.Server.Auth.KeyEnv)
	}

	// gRPC calculator with optional API key authentication.
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(guard.UnaryInterceptor()))
	dlsrpc.RegisterCalculatorServer(grpcSrv, rpc.New(reg))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		slog.Error("failed to listen on gRPC port",
			"port", cfg.Server.GRPCPort, "err", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("gRPC calculator listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "err", err)
		}
	}()

	// Combined HTTP server: REST API, WebSocket hub and metrics on HTTPPort.
	apiHandler := api.New(st, api.Options{
		Metrics:         reg,
		Notifier:        notifier,
		OnChange:        hub.Notify,
		DefaultCategory: func() dls.Category { return dls.Category(category.Load()) },
	})

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", guard.Middleware(apiHandler))
	httpMux.Handle("/ws/stream", guard.Middleware(hub))
	httpMux.Handle("/metrics", reg)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("dlc-server shutting down")
	grpcSrv.GracefulStop()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
	notifier.Wait()
}
