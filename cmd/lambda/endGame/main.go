package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/freddys-cards/cardbattles/internal/aws/storage"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/pkg/logging"
	"go.uber.org/zap"
)

var storageClient *storage.Client

func init() {
	cfg, _ := config.LoadDefaultConfig(context.TODO())
	storageClient = storage.NewClient(dynamodb.NewFromConfig(cfg), storage.Tables{
		MatchResults: os.Getenv("MATCH_RESULTS_TABLE_NAME"),
	})
}

func handler(ctx context.Context, event json.RawMessage) error {
	var matchResultReq dtos.MatchResultRequest
	if err := json.Unmarshal(event, &matchResultReq); err != nil {
		return fmt.Errorf("failed to unmarshal request: %w", err)
	}
	if matchResultReq.MatchId == "" {
		return fmt.Errorf("missing match id")
	}

	matchResult := dtos.MatchResultRequestToEntity(matchResultReq)
	if err := storageClient.PutMatchResult(ctx, matchResult); err != nil {
		return err
	}
	logging.Info("match result stored",
		zap.String("match_id", matchResult.MatchId),
		zap.String("winner", matchResult.Winner),
	)
	return nil
}

func main() {
	lambda.Start(handler)
}
