// Command ws-connect is the Lambda invoked when a client opens the
// conversion-events WebSocket. It validates the caller's JWT and records the
// connection so routing events can be pushed back to them later.
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
	"convroute/pkg/auth"
)

var (
	connStore  *convevents.DynamoConnectionStore
	jwtValidator *auth.JWTValidator
)

func init() {
	tableName := os.Getenv("CONNECTIONS_TABLE_NAME")
	jwtSecret := os.Getenv("JWT_SECRET")
	if tableName == "" || jwtSecret == "" {
		log.Fatal("CONNECTIONS_TABLE_NAME and JWT_SECRET must be set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load AWS config: %v", err)
	}
	connStore = convevents.NewDynamoConnectionStore(dynamodb.NewFromConfig(awsCfg), tableName, 0)

	jwtValidator, err = auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     jwtSecret,
		Issuer:        os.Getenv("JWT_ISSUER"),
	})
	if err != nil {
		log.Fatalf("unable to build JWT validator: %v", err)
	}
}

func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	token, ok := req.QueryStringParameters["token"]
	if !ok || token == "" {
		log.Println("WARN: connection request missing token")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}

	claims, err := jwtValidator.ValidateToken(token)
	if err != nil {
		log.Printf("ERROR: invalid token: %v", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}

	connectionID := req.RequestContext.ConnectionID
	if err := connStore.Save(ctx, claims.UserID, connectionID); err != nil {
		log.Printf("ERROR: failed to save connection: %v", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	log.Printf("connected user %s with connection %s", claims.UserID, connectionID)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func main() {
	lambda.Start(handler)
}
