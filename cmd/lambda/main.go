// Command lambda runs the conversion routing service behind API Gateway,
// proxying HTTP requests into the same chi router cmd/api serves directly.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"

	"convroute/internal/config"
	"convroute/internal/di"
	httpapi "convroute/internal/interfaces/http"
	"convroute/pkg/auth"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

func init() {
	coldStartTime = time.Now()
	log.Println("lambda cold start initiated")

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var err error
	container, err = di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	var validator *auth.JWTValidator
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		validator, err = auth.NewJWTValidator(auth.JWTConfig{SigningMethod: "HS256", SecretKey: secret})
		if err != nil {
			container.Logger.Fatal("failed to build JWT validator", zap.Error(err))
		}
	}

	router := httpapi.NewRouter(container.Core, container.Converter, container.Publisher, validator, container.Logger, container.Metrics)
	chiLambda = chiadapter.NewV2(router)

	container.Logger.Info("lambda cold start completed", zap.Duration("duration", time.Since(coldStartTime)))
}

// Handler adapts an API Gateway HTTP API v2 request into the chi router and
// stamps the response with cold-start and request-tracing headers.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}

	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		resp.Headers["X-Cold-Start-Duration"] = time.Since(coldStartTime).String()
		coldStart = false
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}
	resp.Headers["X-Lambda-Request-ID"] = req.RequestContext.RequestID
	resp.Headers["X-Lambda-Stage"] = req.RequestContext.Stage

	if resp.StatusCode >= 500 {
		container.Logger.Error("lambda error response",
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", req.RequestContext.RequestID),
		)
	}

	return resp, err
}

func main() {
	lambda.Start(Handler)
}
