// Command ws-send-message is the Lambda EventBridge invokes for every
// routing.succeeded/routing.failed event; it fans the event out to every
// WebSocket connection the event's user has open.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	convevents "convroute/internal/infrastructure/events"
	"convroute/internal/domain/event"
)

var broadcaster *convevents.Broadcaster

func init() {
	tableName := os.Getenv("CONNECTIONS_TABLE_NAME")
	wsEndpoint := os.Getenv("WEBSOCKET_API_ENDPOINT")
	if tableName == "" || wsEndpoint == "" {
		log.Fatal("CONNECTIONS_TABLE_NAME and WEBSOCKET_API_ENDPOINT must be set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load AWS config: %v", err)
	}

	logger, _ := zap.NewProduction()
	connStore := convevents.NewDynamoConnectionStore(dynamodb.NewFromConfig(awsCfg), tableName, 0)
	apiClient := apigatewaymanagementapi.NewFromConfig(awsCfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = &wsEndpoint
	})
	broadcaster = convevents.NewBroadcaster(apiClient, connStore, logger)
}

func handler(ctx context.Context, evt events.EventBridgeEvent) error {
	var routingEvent event.RoutingEvent
	if err := json.Unmarshal(evt.Detail, &routingEvent); err != nil {
		log.Printf("ERROR: could not unmarshal event detail: %v", err)
		return err
	}
	if routingEvent.UserID == "" {
		log.Printf("event %s has no user, nothing to broadcast", routingEvent.ID)
		return nil
	}
	return broadcaster.BroadcastToUser(ctx, routingEvent.UserID, routingEvent)
}

func main() {
	lambda.Start(handler)
}
