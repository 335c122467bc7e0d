package events

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	rerrors "convroute/pkg/errors"
)

// connectionItem is the DynamoDB row shape for a single WebSocket
// connection: PK/SK address the primary lookup (by user), GSI1PK/GSI1SK the
// reverse lookup (by connection ID) Remove needs.
type connectionItem struct {
	PK       string `dynamodbav:"PK"`
	SK       string `dynamodbav:"SK"`
	GSI1PK   string `dynamodbav:"GSI1PK"`
	GSI1SK   string `dynamodbav:"GSI1SK"`
	ExpireAt int64  `dynamodbav:"expireAt,omitempty"`
}

// ConnectionStore records which WebSocket connections belong to which user
// so a routing event can be fanned out to every session that user has open.
type ConnectionStore interface {
	Save(ctx context.Context, userID, connectionID string) error
	Remove(ctx context.Context, connectionID string) error
	ListByUser(ctx context.Context, userID string) ([]string, error)
}

// DynamoConnectionStore stores connections in a single table keyed
// PK=USER#<id>, SK=CONN#<connectionID>, with a TTL attribute so stale rows
// expire even if a disconnect event is missed.
type DynamoConnectionStore struct {
	client    *dynamodb.Client
	tableName string
	ttl       int64
}

// NewDynamoConnectionStore returns a store backed by client. ttlSeconds is
// how long an unrefreshed connection record survives before DynamoDB expires
// it; pass 0 to disable the TTL attribute.
func NewDynamoConnectionStore(client *dynamodb.Client, tableName string, ttlSeconds int64) *DynamoConnectionStore {
	return &DynamoConnectionStore{client: client, tableName: tableName, ttl: ttlSeconds}
}

func (s *DynamoConnectionStore) Save(ctx context.Context, userID, connectionID string) error {
	row := connectionItem{
		PK:     "USER#" + userID,
		SK:     "CONN#" + connectionID,
		GSI1PK: "CONN#" + connectionID,
		GSI1SK: "USER#" + userID,
	}
	if s.ttl > 0 {
		row.ExpireAt = time.Now().Unix() + s.ttl
	}
	item, err := attributevalue.MarshalMap(row)
	if err != nil {
		return fmt.Errorf("marshal connection: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return rerrors.AWSError("save_connection", connectionID, err)
	}
	return nil
}

// Remove deletes a connection by scanning its reverse-lookup index for the
// owning user's partition key, then deleting the primary item. Lambdas call
// this from the disconnect route, where only the connection ID is known.
func (s *DynamoConnectionStore) Remove(ctx context.Context, connectionID string) error {
	sk := "CONN#" + connectionID
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sk": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return rerrors.AWSError("lookup_connection", connectionID, err)
	}
	for _, raw := range result.Items {
		var row connectionItem
		if err := attributevalue.UnmarshalMap(raw, &row); err != nil {
			return fmt.Errorf("unmarshal connection: %w", err)
		}
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: row.PK},
				"SK": &types.AttributeValueMemberS{Value: row.SK},
			},
		})
		if err != nil {
			return rerrors.AWSError("delete_connection", connectionID, err)
		}
	}
	return nil
}

func (s *DynamoConnectionStore) ListByUser(ctx context.Context, userID string) ([]string, error) {
	pk := "USER#" + userID
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: pk},
			":prefix": &types.AttributeValueMemberS{Value: "CONN#"},
		},
	})
	if err != nil {
		return nil, rerrors.AWSError("list_connections", userID, err)
	}
	ids := make([]string, 0, len(result.Items))
	for _, raw := range result.Items {
		var row connectionItem
		if err := attributevalue.UnmarshalMap(raw, &row); err != nil {
			continue
		}
		ids = append(ids, row.SK[len("CONN#"):])
	}
	return ids, nil
}
