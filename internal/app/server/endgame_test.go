package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLambda struct {
	input *lambda.InvokeInput
	err   error
}

func (f *fakeLambda) Invoke(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.input = in
	return &lambda.InvokeOutput{StatusCode: 202}, f.err
}

func TestLambdaEndGame(t *testing.T) {
	client := &fakeLambda{}
	h := NewLambdaEndGame(client, "arn:endGame")
	result := dtos.MatchResultRequest{MatchId: "m1", Rounds: 8, Players: []dtos.PlayerResultRequest{{PlayerId: "P1", Position: 1}}}

	require.NoError(t, h.HandleEndGame(context.Background(), result))
	assert.Equal(t, "arn:endGame", aws.ToString(client.input.FunctionName))
	assert.Equal(t, types.InvocationTypeEvent, client.input.InvocationType)

	var sent dtos.MatchResultRequest
	require.NoError(t, json.Unmarshal(client.input.Payload, &sent))
	assert.Equal(t, result.MatchId, sent.MatchId)
	assert.Equal(t, result.Players, sent.Players)

	client.err = errors.New("throttled")
	assert.ErrorContains(t, h.HandleEndGame(context.Background(), result), "failed to invoke end game")
}

type fakeResultStore struct {
	results []entities.MatchResult
}

func (f *fakeResultStore) PutMatchResult(_ context.Context, result entities.MatchResult) error {
	f.results = append(f.results, result)
	return nil
}

func TestStoreEndGame(t *testing.T) {
	store := &fakeResultStore{}
	h := NewStoreEndGame(store)
	require.NoError(t, h.HandleEndGame(context.Background(), dtos.MatchResultRequest{
		MatchId: "m1",
		Players: []dtos.PlayerResultRequest{{PlayerId: "P2", Position: 1}, {PlayerId: "P1", Position: 2}},
	}))
	require.Len(t, store.results, 1)
	assert.Equal(t, "P2", store.results[0].Winner)
}
