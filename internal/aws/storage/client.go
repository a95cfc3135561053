package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type Client struct {
	dynamodb dynamoAPI
	cfg      config
	now      func() time.Time
}

// Tables names the DynamoDB tables used by the client. Empty names fall back
// to the defaults.
type Tables struct {
	MatchEvents        string
	MatchResults       string
	Connections        string
	ConnectionsByMatch string
}

type config struct {
	MatchEventsTableName      *string
	MatchResultsTableName     *string
	ConnectionsTableName      *string
	ConnectionsMatchIndexName *string
}

func NewClient(dynamoClient dynamoAPI, tables Tables) *Client {
	return &Client{
		dynamodb: dynamoClient,
		cfg:      loadConfig(tables),
		now:      time.Now,
	}
}

func loadConfig(tables Tables) config {
	return config{
		MatchEventsTableName:      aws.String(withDefault(tables.MatchEvents, "MatchEvents")),
		MatchResultsTableName:     aws.String(withDefault(tables.MatchResults, "MatchResults")),
		ConnectionsTableName:      aws.String(withDefault(tables.Connections, "Connections")),
		ConnectionsMatchIndexName: aws.String(withDefault(tables.ConnectionsByMatch, "MatchIndex")),
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
