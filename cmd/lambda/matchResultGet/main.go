package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/freddys-cards/cardbattles/internal/aws/storage"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
)

var storageClient *storage.Client

func init() {
	cfg, _ := config.LoadDefaultConfig(context.TODO())
	storageClient = storage.NewClient(dynamodb.NewFromConfig(cfg), storage.Tables{
		MatchResults: os.Getenv("MATCH_RESULTS_TABLE_NAME"),
	})
}

func handler(
	ctx context.Context,
	event events.APIGatewayProxyRequest,
) (
	events.APIGatewayProxyResponse,
	error,
) {
	matchId := event.PathParameters["matchId"]
	matchResult, err := storageClient.GetMatchResult(ctx, matchId)
	if err != nil {
		if errors.Is(err, storage.ErrMatchResultNotFound) {
			return events.APIGatewayProxyResponse{StatusCode: http.StatusNotFound}, nil
		}
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError},
			fmt.Errorf("failed to get match result: %w", err)
	}

	matchResultJson, err := json.Marshal(dtos.MatchResultResponseFromEntity(matchResult))
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError},
			fmt.Errorf("failed to marshal response: %w", err)
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: string(matchResultJson)}, nil
}

func main() {
	lambda.Start(handler)
}
