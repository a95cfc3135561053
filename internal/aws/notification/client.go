package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
)

type apiGatewayAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// ConnectionStore is the subset of the storage client the sink needs.
type ConnectionStore interface {
	FetchMatchConnections(ctx context.Context, matchId string) ([]entities.Connection, error)
	DeleteConnection(ctx context.Context, connectionId string) error
}

type Client struct {
	apigateway  apiGatewayAPI
	connections ConnectionStore
}

func NewClient(apigatewayClient apiGatewayAPI, connections ConnectionStore) *Client {
	return &Client{
		apigateway:  apigatewayClient,
		connections: connections,
	}
}

// NewApiGatewayClient builds a management API client for a deployed
// WebSocket API stage.
func NewApiGatewayClient(cfg aws.Config, apiId, stage string) *apigatewaymanagementapi.Client {
	endpoint := fmt.Sprintf(
		"https://%s.execute-api.%s.amazonaws.com/%s",
		apiId,
		cfg.Region,
		stage,
	)
	return apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
}
