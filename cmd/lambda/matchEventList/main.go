package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freddys-cards/cardbattles/internal/aws/storage"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
)

var storageClient *storage.Client

func init() {
	cfg, _ := config.LoadDefaultConfig(context.TODO())
	storageClient = storage.NewClient(dynamodb.NewFromConfig(cfg), storage.Tables{
		MatchEvents: os.Getenv("MATCH_EVENTS_TABLE_NAME"),
	})
}

type scanParameters struct {
	matchId  string
	startKey map[string]types.AttributeValue
	limit    int32
	asc      bool
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params, err := extractScanParameters(event.PathParameters["matchId"], event.QueryStringParameters)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest},
			fmt.Errorf("failed to extract parameters: %w", err)
	}
	matchEvents, lastEvaluatedKey, err := storageClient.FetchMatchEvents(ctx, params.matchId, params.startKey, params.limit, params.asc)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError},
			fmt.Errorf("failed to fetch match events: %w", err)
	}

	matchEventListResp := dtos.MatchEventListResponseFromEntities(matchEvents)
	if lastEvaluatedKey != nil {
		if sortKey, ok := lastEvaluatedKey["SortKey"].(*types.AttributeValueMemberS); ok {
			matchEventListResp.NextPageToken = &dtos.NextMatchEventPageToken{
				SortKey: sortKey.Value,
			}
		}
	}

	matchEventListJson, err := json.Marshal(matchEventListResp)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError},
			fmt.Errorf("failed to marshal response: %w", err)
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: string(matchEventListJson)}, nil
}

func extractScanParameters(matchId string, params map[string]string) (scanParameters, error) {
	if matchId == "" {
		return scanParameters{}, fmt.Errorf("missing match id")
	}
	scan := scanParameters{matchId: matchId, limit: 50, asc: true}

	if limitStr, ok := params["limit"]; ok {
		limit, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || limit < 1 {
			return scanParameters{}, fmt.Errorf("invalid limit: %q", limitStr)
		}
		scan.limit = int32(limit)
	}

	switch params["order"] {
	case "", "asc":
	case "desc":
		scan.asc = false
	default:
		return scanParameters{}, fmt.Errorf("invalid order: %q", params["order"])
	}

	// Check for startKey (optional)
	if startKey, ok := params["startKey"]; ok {
		scan.startKey = storage.MatchEventStartKey(matchId, startKey)
	}
	return scan, nil
}

func main() {
	lambda.Start(handler)
}
