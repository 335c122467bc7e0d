package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"convroute/internal/domain/event"
)

// wsMessage is what a browser client receives over the WebSocket. Action
// lets a single connection multiplex more than one event type without the
// client needing to inspect the payload shape first.
type wsMessage struct {
	Action string            `json:"action"`
	Event  event.RoutingEvent `json:"event"`
}

// Broadcaster pushes routing events to every WebSocket connection a user has
// open, via the API Gateway Management API, and prunes connections API
// Gateway reports as gone.
type Broadcaster struct {
	api    *apigatewaymanagementapi.Client
	conns  ConnectionStore
	logger *zap.Logger
}

// NewBroadcaster returns a Broadcaster. client must already be configured
// with the WebSocket API's management endpoint
// (`https://{api-id}.execute-api.{region}.amazonaws.com/{stage}`).
func NewBroadcaster(client *apigatewaymanagementapi.Client, conns ConnectionStore, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broadcaster{api: client, conns: conns, logger: logger}
}

// BroadcastToUser sends evt to every open connection belonging to userID. A
// GoneException for one connection is treated as routine cleanup, not an
// error to report to the caller; any other per-connection failure is logged
// and skipped so one bad connection doesn't block the rest.
func (b *Broadcaster) BroadcastToUser(ctx context.Context, userID string, evt event.RoutingEvent) error {
	connIDs, err := b.conns.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list connections: %w", err)
	}
	if len(connIDs) == 0 {
		return nil
	}

	action := "routingSucceeded"
	if evt.Type == event.TypeRoutingFailed {
		action = "routingFailed"
	}
	payload, err := json.Marshal(wsMessage{Action: action, Event: evt})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	for _, connID := range connIDs {
		_, err := b.api.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: &connID,
			Data:         payload,
		})
		if err != nil {
			var gone *apigwtypes.GoneException
			if errors.As(err, &gone) {
				b.logger.Info("pruning stale websocket connection", zap.String("connection_id", connID))
				if rmErr := b.conns.Remove(ctx, connID); rmErr != nil {
					b.logger.Warn("failed to remove stale connection", zap.String("connection_id", connID), zap.Error(rmErr))
				}
				continue
			}
			b.logger.Warn("failed to post to connection", zap.String("connection_id", connID), zap.Error(err))
		}
	}
	return nil
}
