// Command ws-disconnect is the Lambda invoked when a client's WebSocket
// connection closes; it removes the connection record so broadcasts stop
// targeting it.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	convevents "convroute/internal/infrastructure/events"
)

var connStore *convevents.DynamoConnectionStore

func init() {
	tableName := os.Getenv("CONNECTIONS_TABLE_NAME")
	if tableName == "" {
		log.Fatal("CONNECTIONS_TABLE_NAME must be set")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load AWS config: %v", err)
	}
	connStore = convevents.NewDynamoConnectionStore(dynamodb.NewFromConfig(awsCfg), tableName, 0)
}

func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := req.RequestContext.ConnectionID
	if err := connStore.Remove(ctx, connectionID); err != nil {
		log.Printf("ERROR: failed to remove connection %s: %v", connectionID, err)
		// The connection is closed either way; report success so API Gateway
		// doesn't retry a disconnect that already happened client-side.
	}
	log.Printf("disconnected connection %s", connectionID)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func main() {
	lambda.Start(handler)
}
