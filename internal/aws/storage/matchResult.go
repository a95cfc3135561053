package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
)

var ErrMatchResultNotFound = errors.New("match result not found")

func (client *Client) GetMatchResult(ctx context.Context, matchId string) (entities.MatchResult, error) {
	output, err := client.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: client.cfg.MatchResultsTableName,
		Key: map[string]types.AttributeValue{
			"MatchId": &types.AttributeValueMemberS{
				Value: matchId,
			},
		},
	})
	if err != nil {
		return entities.MatchResult{}, fmt.Errorf("failed to get match result: %w", err)
	}
	if output.Item == nil {
		return entities.MatchResult{}, ErrMatchResultNotFound
	}
	var result entities.MatchResult
	if err := attributevalue.UnmarshalMap(output.Item, &result); err != nil {
		return entities.MatchResult{}, fmt.Errorf("failed to unmarshal match result: %w", err)
	}
	return result, nil
}

func (client *Client) PutMatchResult(ctx context.Context, result entities.MatchResult) error {
	av, err := attributevalue.MarshalMap(result)
	if err != nil {
		return fmt.Errorf("failed to marshal match result map: %w", err)
	}
	_, err = client.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: client.cfg.MatchResultsTableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put match result: %w", err)
	}
	return nil
}
