package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/freddys-cards/cardbattles/internal/match"
)

// RecordEvent implements match.PersistenceGateway.
func (client *Client) RecordEvent(
	ctx context.Context,
	matchId string,
	kind match.EventKind,
	payload any,
) error {
	event, err := dtos.MatchEventToEntity(matchId, kind, payload, client.now())
	if err != nil {
		return err
	}
	return client.PutMatchEvent(ctx, event)
}

func (client *Client) PutMatchEvent(ctx context.Context, event entities.MatchEvent) error {
	av, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("failed to marshal match event map: %w", err)
	}
	_, err = client.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: client.cfg.MatchEventsTableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put match event: %w", err)
	}
	return nil
}

// FetchMatchEvents pages through the events of a match in time order.
func (client *Client) FetchMatchEvents(
	ctx context.Context,
	matchId string,
	lastKey map[string]types.AttributeValue,
	limit int32,
	asc bool,
) (
	[]entities.MatchEvent,
	map[string]types.AttributeValue,
	error,
) {
	input := &dynamodb.QueryInput{
		TableName:              client.cfg.MatchEventsTableName,
		KeyConditionExpression: aws.String("MatchId = :matchId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":matchId": &types.AttributeValueMemberS{Value: matchId},
		},
		ExclusiveStartKey: lastKey,
		ScanIndexForward:  aws.Bool(asc),
		Limit:             aws.Int32(limit),
	}
	output, err := client.dynamodb.Query(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query match events: %w", err)
	}
	var events []entities.MatchEvent
	err = attributevalue.UnmarshalListOfMaps(output.Items, &events)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal match events: %w", err)
	}
	return events, output.LastEvaluatedKey, nil
}

// MatchEventStartKey rebuilds the exclusive start key from a page token.
func MatchEventStartKey(matchId, sortKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"MatchId": &types.AttributeValueMemberS{Value: matchId},
		"SortKey": &types.AttributeValueMemberS{Value: sortKey},
	}
}
