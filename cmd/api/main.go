// Command api runs the conversion routing service as a standalone HTTP
// server, for local development and any deployment target that isn't
// Lambda.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"convroute/internal/config"
	"convroute/internal/di"
	httpapi "convroute/internal/interfaces/http"
	"convroute/pkg/auth"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()
	if container.TracerProvider != nil {
		defer container.TracerProvider.Shutdown(ctx)
	}
	defer container.ConfigManager.Stop()

	var validator *auth.JWTValidator
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		validator, err = auth.NewJWTValidator(auth.JWTConfig{SigningMethod: "HS256", SecretKey: secret})
		if err != nil {
			container.Logger.Fatal("failed to build JWT validator", zap.Error(err))
		}
	} else {
		container.Logger.Warn("JWT_SECRET not set, /v1 routes are unauthenticated")
	}

	mux := http.NewServeMux()
	mux.Handle("/", httpapi.NewRouter(container.Core, container.Converter, container.Publisher, validator, container.Logger, container.Metrics))
	if container.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(container.Metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("starting server", zap.Int("port", cfg.Server.Port), zap.String("environment", string(cfg.Environment)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("shutdown error", zap.Error(err))
	}
}
