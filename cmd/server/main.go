package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/freddys-cards/cardbattles/internal/app/server"
	"github.com/freddys-cards/cardbattles/internal/aws/notification"
	"github.com/freddys-cards/cardbattles/internal/aws/storage"
	"github.com/freddys-cards/cardbattles/internal/cards"
	"github.com/freddys-cards/cardbattles/internal/postgres"
	"github.com/freddys-cards/cardbattles/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	defer logging.Sync()

	cfg, err := server.NewConfig()
	if err != nil {
		logging.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []server.Option

	if cfg.CardCatalogPath != "" {
		catalog, err := cards.Load(cfg.CardCatalogPath)
		if err != nil {
			logging.Fatal("failed to load card catalog", zap.Error(err))
		}
		opts = append(opts, server.WithCatalog(catalog))
	}

	var awsCfg *aws.Config
	loadAws := func() aws.Config {
		if awsCfg == nil {
			c, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				logging.Fatal("unable to load SDK config", zap.Error(err))
			}
			awsCfg = &c
		}
		return *awsCfg
	}
	tables := storage.Tables{
		MatchEvents:  cfg.MatchEventsTableName,
		MatchResults: cfg.MatchResultsTableName,
		Connections:  cfg.ConnectionsTableName,
	}

	switch cfg.StorageBackend {
	case server.StorageDynamodb:
		storageClient := storage.NewClient(dynamodb.NewFromConfig(loadAws()), tables)
		opts = append(opts, server.WithPersistence(storageClient))
	case server.StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.DatabaseUrl)
		if err != nil {
			logging.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer store.Close()
		opts = append(opts,
			server.WithPersistence(store),
			server.WithEndGameHandler(server.NewStoreEndGame(store)),
		)
	}

	if cfg.EndGameFunctionArn != "" {
		opts = append(opts, server.WithEndGameHandler(
			server.NewLambdaEndGame(lambda.NewFromConfig(loadAws()), cfg.EndGameFunctionArn),
		))
	}

	if cfg.NotifierBackend == server.NotifierApiGateway {
		awsConfig := loadAws()
		connections := storage.NewClient(dynamodb.NewFromConfig(awsConfig), tables)
		apigatewayClient := notification.NewApiGatewayClient(awsConfig, cfg.WebsocketApiId, cfg.WebsocketApiStage)
		opts = append(opts, server.WithRelay(notification.NewClient(apigatewayClient, connections)))
	}

	srv := server.NewServer(cfg, opts...)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("failed to shut down", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil {
		logging.Fatal("Game server exited: ", zap.Error(err))
	}
	<-stopped
	logging.Info("game server stopped")
}
