// Package http assembles the chi router: middleware chain, route table, and
// the swagger UI, over a ConversionCore.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"convroute/internal/application/core"
	"convroute/internal/infrastructure/events"
	"convroute/internal/infrastructure/observability"
	"convroute/internal/interfaces/http/handlers"
	"convroute/internal/interfaces/http/middleware"
	"convroute/pkg/api"
	"convroute/pkg/auth"
)

// NewRouter builds the full route table over c. jwtValidator may be nil,
// in which case every /v1 route runs unauthenticated (used for local
// development). publisher may be nil, in which case
// routing events are dropped. metrics may be nil, in which case tracing
// still runs but no HTTP or routing metrics are recorded. converter may be
// nil, in which case /v1/convert calls c directly without the extra span
// and X-Ray subsegment TraceConverter would add.
func NewRouter(c *core.ConversionCore, converter observability.Converter, publisher events.Publisher, jwtValidator *auth.JWTValidator, logger *zap.Logger, metrics *observability.Collector) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(observability.TracingMiddleware("convroute"))
	if metrics != nil {
		r.Use(observability.MetricsMiddleware(metrics))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/api/swagger", api.SwaggerHandler())
	r.Get("/api/swagger/ui", api.SwaggerUIHandler())

	convertHandler := handlers.NewConvertHandler(c, converter, publisher, logger)
	formatsHandler := handlers.NewFormatsHandler(c)
	lookupHandler := handlers.NewLookupHandler(c)
	graphHandler := handlers.NewGraphHandler(c)
	categoryCostHandler := handlers.NewCategoryCostHandler(c)
	adaptiveCostHandler := handlers.NewAdaptiveCostHandler(c)
	cacheHandler := handlers.NewCacheHandler(c)

	r.Route("/v1", func(r chi.Router) {
		if jwtValidator != nil {
			r.Use(middleware.Auth(jwtValidator))
		}

		r.Post("/convert", convertHandler.ServeHTTP)
		r.Get("/formats", formatsHandler.ServeHTTP)
		r.Get("/formats/lookup", lookupHandler.ServeHTTP)
		r.Get("/graph", graphHandler.ServeHTTP)
		r.Post("/graph/cost-table/category", categoryCostHandler.ServeHTTP)
		r.Post("/graph/cost-table/adaptive", adaptiveCostHandler.ServeHTTP)
		r.Get("/cache", cacheHandler.Get)
		r.Put("/cache", cacheHandler.Put)
	})

	return r
}
