package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
)

// EndGameHandler is told about every finished match.
type EndGameHandler interface {
	HandleEndGame(ctx context.Context, result dtos.MatchResultRequest) error
}

type lambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaEndGame hands finished matches to the end game function without
// waiting for it to run.
type LambdaEndGame struct {
	client      lambdaAPI
	functionArn string
}

func NewLambdaEndGame(client lambdaAPI, functionArn string) *LambdaEndGame {
	return &LambdaEndGame{client: client, functionArn: functionArn}
}

func (l *LambdaEndGame) HandleEndGame(ctx context.Context, result dtos.MatchResultRequest) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal match result: %w", err)
	}
	_, err = l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(l.functionArn),
		Payload:        payload,
		InvocationType: types.InvocationTypeEvent,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke end game: %w", err)
	}
	return nil
}

type resultStore interface {
	PutMatchResult(ctx context.Context, result entities.MatchResult) error
}

// StoreEndGame writes finished matches straight to a result store.
type StoreEndGame struct {
	store resultStore
}

func NewStoreEndGame(store resultStore) *StoreEndGame {
	return &StoreEndGame{store: store}
}

func (s *StoreEndGame) HandleEndGame(ctx context.Context, result dtos.MatchResultRequest) error {
	return s.store.PutMatchResult(ctx, dtos.MatchResultRequestToEntity(result))
}
