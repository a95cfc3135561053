package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	IdleTimeout time.Duration

	MaxRounds       int
	HandSize        int
	Copies          int
	CardCatalogPath string

	StorageBackend  string
	NotifierBackend string
	DatabaseUrl     string

	AwsRegion          string
	EndGameFunctionArn string
	WebsocketApiId     string
	WebsocketApiStage  string

	MatchEventsTableName  string
	MatchResultsTableName string
	ConnectionsTableName  string
}

const (
	StorageDynamodb = "dynamodb"
	StoragePostgres = "postgres"
	StorageNone     = "none"

	NotifierWebsocket  = "websocket"
	NotifierApiGateway = "apigateway"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	// Allow override by OS environment variables, e.g. SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "7202")
	v.SetDefault("Server.IdleTimeout", "30m")
	v.SetDefault("Game.MaxRounds", 8)
	v.SetDefault("Game.HandSize", 8)
	v.SetDefault("Game.Copies", 4)
	v.SetDefault("Game.CardCatalogPath", "")
	v.SetDefault("Storage.Backend", StorageNone)
	v.SetDefault("Notifier.Backend", NotifierWebsocket)
}

// NewConfig reads config.yaml from ./configs/server or the working directory,
// merges the optional env files, and lets environment variables override
// everything.
func NewConfig() (Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs/server")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// List of env files to load
	envFiles := []string{
		"./configs/aws/base.env",
		"./configs/aws/lambda.env",
		"./configs/aws/dynamodb.env",
	}
	if err := loadEnvFiles(v, envFiles); err != nil {
		return Config{}, fmt.Errorf("failed to load env files: %w", err)
	}

	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	var config Config
	config.Port = v.GetString("Server.Port")
	idleTimeout, err := time.ParseDuration(v.GetString("Server.IdleTimeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid Server.IdleTimeout: %w", err)
	}
	config.IdleTimeout = idleTimeout

	config.MaxRounds = v.GetInt("Game.MaxRounds")
	config.HandSize = v.GetInt("Game.HandSize")
	config.Copies = v.GetInt("Game.Copies")
	config.CardCatalogPath = v.GetString("Game.CardCatalogPath")
	if config.MaxRounds < 1 {
		return Config{}, fmt.Errorf("Game.MaxRounds must be positive, got %d", config.MaxRounds)
	}
	if config.HandSize < config.MaxRounds {
		return Config{}, fmt.Errorf("Game.HandSize %d cannot cover %d rounds", config.HandSize, config.MaxRounds)
	}

	config.StorageBackend = v.GetString("Storage.Backend")
	switch config.StorageBackend {
	case StorageDynamodb, StoragePostgres, StorageNone:
	default:
		return Config{}, fmt.Errorf("unknown Storage.Backend %q", config.StorageBackend)
	}
	config.NotifierBackend = v.GetString("Notifier.Backend")
	switch config.NotifierBackend {
	case NotifierWebsocket, NotifierApiGateway:
	default:
		return Config{}, fmt.Errorf("unknown Notifier.Backend %q", config.NotifierBackend)
	}

	config.DatabaseUrl = v.GetString("DATABASE_URL")
	if config.StorageBackend == StoragePostgres && config.DatabaseUrl == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}
	config.AwsRegion = v.GetString("AWS_REGION")
	config.EndGameFunctionArn = v.GetString("END_GAME_FUNCTION_ARN")
	config.WebsocketApiId = v.GetString("WEBSOCKET_API_ID")
	config.WebsocketApiStage = v.GetString("WEBSOCKET_API_STAGE")
	config.MatchEventsTableName = v.GetString("MATCH_EVENTS_TABLE_NAME")
	config.MatchResultsTableName = v.GetString("MATCH_RESULTS_TABLE_NAME")
	config.ConnectionsTableName = v.GetString("CONNECTIONS_TABLE_NAME")

	return config, nil
}

func loadEnvFiles(v *viper.Viper, filenames []string) error {
	for _, file := range filenames {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			return err
		}
	}
	return nil
}
