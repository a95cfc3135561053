package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
)

func (client *Client) PutConnection(ctx context.Context, conn entities.Connection) error {
	av, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection map: %w", err)
	}
	_, err = client.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: client.cfg.ConnectionsTableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put connection: %w", err)
	}
	return nil
}

func (client *Client) DeleteConnection(ctx context.Context, connectionId string) error {
	_, err := client.dynamodb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: client.cfg.ConnectionsTableName,
		Key: map[string]types.AttributeValue{
			"Id": &types.AttributeValueMemberS{Value: connectionId},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// FetchMatchConnections lists every connection registered for a match.
func (client *Client) FetchMatchConnections(ctx context.Context, matchId string) ([]entities.Connection, error) {
	input := &dynamodb.QueryInput{
		TableName:              client.cfg.ConnectionsTableName,
		IndexName:              client.cfg.ConnectionsMatchIndexName,
		KeyConditionExpression: aws.String("MatchId = :matchId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":matchId": &types.AttributeValueMemberS{Value: matchId},
		},
	}
	var connections []entities.Connection
	for {
		output, err := client.dynamodb.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query connections: %w", err)
		}
		var page []entities.Connection
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
		}
		connections = append(connections, page...)
		if output.LastEvaluatedKey == nil {
			return connections, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}
