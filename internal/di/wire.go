//go:build wireinject
// +build wireinject

// Package di wires the routing service's dependencies with google/wire.
// This file is the injector template; run `wire` to regenerate wire_gen.go
// from it. It never builds on its own — the wireinject tag excludes it from
// normal builds.
package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"convroute/internal/application/core"
	"convroute/internal/config"
	"convroute/internal/infrastructure/events"
	"convroute/internal/infrastructure/observability"
)

// Container holds every long-lived dependency cmd/api and cmd/lambda need.
type Container struct {
	Config         config.Config
	Logger         *zap.Logger
	Metrics        *observability.Collector
	Core           *core.ConversionCore
	Converter      observability.Converter
	TracerProvider *observability.TracerProvider
	ConfigManager  *config.ConfigManager
	Publisher      events.Publisher
}

// SuperSet is the full provider graph.
var SuperSet = wire.NewSet(
	provideLogger,
	provideMetrics,
	provideCostTables,
	provideHandlerRoster,
	provideConversionCore,
	provideTracerProvider,
	provideConverter,
	provideConfigManager,
	providePublisher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer builds a fully wired Container from cfg.
func InitializeContainer(cfg config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // wire replaces this body
}
