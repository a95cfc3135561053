package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/freddys-cards/cardbattles/internal/domains/dtos"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/freddys-cards/cardbattles/pkg/logging"
	"go.uber.org/zap"
)

// Notify implements match.NotificationSink by posting the phase change to
// every connection registered for the match. Each seat gets its own view of
// the event. Connections the gateway reports as gone are deleted.
func (client *Client) Notify(
	ctx context.Context,
	matchId string,
	phase match.Phase,
	event match.Event,
) error {
	connections, err := client.connections.FetchMatchConnections(ctx, matchId)
	if err != nil {
		return fmt.Errorf("failed to fetch match connections: %w", err)
	}

	messages := make(map[string][]byte)
	var errs []error
	for _, conn := range connections {
		data, ok := messages[conn.PlayerId]
		if !ok {
			data, err = json.Marshal(dtos.PhaseMessageFromEvent(matchId, phase, event, conn.PlayerId))
			if err != nil {
				return fmt.Errorf("failed to marshal phase message: %w", err)
			}
			messages[conn.PlayerId] = data
		}
		err := client.PostToConnection(ctx, conn.Id, data)
		if err == nil {
			continue
		}
		var gone *types.GoneException
		if errors.As(err, &gone) {
			logging.Info("connection gone",
				zap.String("match_id", matchId),
				zap.String("connection_id", conn.Id),
			)
			if err := client.connections.DeleteConnection(ctx, conn.Id); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (client *Client) PostToConnection(ctx context.Context, connectionId string, data []byte) error {
	_, err := client.apigateway.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connectionId),
		Data:         data,
	})
	if err != nil {
		return fmt.Errorf("failed to post to connection: %w", err)
	}
	return nil
}
