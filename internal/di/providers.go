// Package di wires the routing service's dependencies: configuration,
// logging, metrics, the handler roster, and the ConversionCore they all
// feed into. wire_gen.go is the hand-authored equivalent of what `wire`
// would generate from wire.go.
package di

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"convroute/internal/application/core"
	"convroute/internal/config"
	"convroute/internal/domain/graph"
	"convroute/internal/domain/handler"
	"convroute/internal/domain/handler/handlertest"
	"convroute/internal/infrastructure/events"
	"convroute/internal/infrastructure/observability"
)

func provideLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Environment == config.Production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func provideMetrics(cfg config.Config) *observability.Collector {
	if !cfg.Features.EnableMetrics {
		return nil
	}
	return observability.NewCollector("convroute")
}

func provideCostTables(cfg config.Config) *graph.CostTables {
	tables, err := config.LoadCostTables(cfg.Routing.CostTablePath)
	if err != nil {
		return graph.DefaultCostTables()
	}
	return tables
}

// provideHandlerRoster returns the handlers a ConversionCore should route
// across. The mock roster in handlertest stands in for the real format
// handlers (ffmpeg, imagemagick, pandoc, ...); see DESIGN.md for why the
// production roster is left as a wiring point rather than built here.
func provideHandlerRoster() []handler.Handler {
	return []handler.Handler{
		handlertest.CanvasToBlob(),
		handlertest.Meyda(),
		handlertest.FFmpeg(),
	}
}

func provideConversionCore(cfg config.Config, tables *graph.CostTables, roster []handler.Handler, metrics *observability.Collector, logger *zap.Logger) (*core.ConversionCore, error) {
	coreCfg := core.Config{
		StrictCategories: cfg.Routing.StrictCategories,
		CostTables:       tables,
	}
	if metrics != nil {
		coreCfg.OnBreakerTrip = func(name string) {
			metrics.BreakerTrips.WithLabelValues(name).Inc()
		}
	}
	return core.New(coreCfg, roster, logger)
}

// provideTracerProvider sets up the global OTEL tracer provider and, under
// Lambda, an X-Ray tracer alongside it. It returns (nil, nil) when tracing
// is disabled, leaving the global no-op provider otel.Tracer falls back to.
func provideTracerProvider(cfg config.Config) (*observability.TracerProvider, *observability.XRayTracer, error) {
	if !cfg.Features.EnableTracing {
		return nil, nil, nil
	}
	tp, err := observability.InitTracing(observability.TracingConfig{
		ServiceName: "convroute",
		Environment: string(cfg.Environment),
	})
	if err != nil {
		return nil, nil, err
	}
	return tp, observability.NewXRayTracer("convroute"), nil
}

// provideConverter wraps core in tracing spans when a tracer provider was
// built; otherwise core itself satisfies observability.Converter untraced.
func provideConverter(c *core.ConversionCore, tp *observability.TracerProvider, xrayTracer *observability.XRayTracer) observability.Converter {
	if tp == nil {
		return c
	}
	return observability.TraceConverter(c, tp.Tracer(), xrayTracer)
}

// provideConfigManager builds a ConfigManager around core and registers the
// routing graph as a hot-reload target: whenever the watched cost-table
// file changes, the manager reloads it and rebuilds core's graph from the
// new tables. The underlying ConfigWatcher only starts its fsnotify loop in
// config.Development, but Stop is always safe to call.
func provideConfigManager(cfg config.Config, c *core.ConversionCore, logger *zap.Logger) (*config.ConfigManager, error) {
	manager, err := config.NewConfigManager(&cfg, logger)
	if err != nil {
		return nil, err
	}
	manager.RegisterComponent("routing-graph", func(newCfg *config.Config) error {
		tables, err := config.LoadCostTables(newCfg.Routing.CostTablePath)
		if err != nil {
			return err
		}
		return c.MutateCostTables(context.Background(), func(live *graph.CostTables) {
			*live = *tables
		})
	})
	return manager, nil
}

func providePublisher(cfg config.Config, logger *zap.Logger) (events.Publisher, error) {
	if cfg.AWS.EventBusName == "" {
		return events.NoOpPublisher{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}
	client := eventbridge.NewFromConfig(awsCfg)
	base := events.NewEventBridgePublisher(client, cfg.AWS.EventBusName, "convroute")
	return events.NewAsyncPublisher(base, 1000), nil
}
