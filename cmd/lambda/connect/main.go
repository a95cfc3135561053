package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/freddys-cards/cardbattles/internal/aws/storage"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/freddys-cards/cardbattles/pkg/logging"
	"go.uber.org/zap"
)

var storageClient *storage.Client

func init() {
	cfg, _ := config.LoadDefaultConfig(context.TODO())
	storageClient = storage.NewClient(dynamodb.NewFromConfig(cfg), storage.Tables{
		Connections: os.Getenv("CONNECTIONS_TABLE_NAME"),
	})
}

// Registers a WebSocket connection for a seat of a match
func handler(
	ctx context.Context,
	event events.APIGatewayWebsocketProxyRequest,
) (
	events.APIGatewayProxyResponse,
	error,
) {
	matchId := event.QueryStringParameters["matchId"]
	playerId := event.QueryStringParameters["playerId"]
	if matchId == "" || playerId == "" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Body:       "matchId and playerId are required",
		}, nil
	}

	err := storageClient.PutConnection(ctx, entities.Connection{
		Id:          event.RequestContext.ConnectionID,
		MatchId:     matchId,
		PlayerId:    playerId,
		ConnectedAt: time.Now().UTC(),
	})
	if err != nil {
		logging.Error("failed to save connection", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	logging.Info("player connected",
		zap.String("match_id", matchId),
		zap.String("player_id", playerId),
		zap.String("connection_id", event.RequestContext.ConnectionID),
	)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "Connected"}, nil
}

func main() {
	lambda.Start(handler)
}
