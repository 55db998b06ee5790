package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/todoapp/core/csql"
	"github.com/relabs-tech/todoapp/core/kss"
	"github.com/relabs-tech/todoapp/core/logger"
)

// Service holds the configuration for this service
//
// use DATABASE_URL="host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
type Service struct {
	Port             int    `env:"PORT,default=8080" description:"the port to listen on"`
	DatabaseURL      string `env:"DATABASE_URL" description:"the connection string for the Postgres DB"`
	DBDriver         string `env:"DB_DRIVER,default=postgres" description:"postgres or sqlite"`
	DBSchema         string `env:"DB_SCHEMA" description:"the Postgres schema, public if empty"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" description:"the Postgres password, appended to DATABASE_URL"`
	SQLitePath       string `env:"SQLITE_PATH,default=todoapp.db" description:"the SQLite database file"`

	AuthServiceURL  string        `env:"AUTH_SERVICE_URL" description:"the base url of the auth service"`
	AuthCacheTTL    time.Duration `env:"AUTH_CACHE_TTL,default=0s" description:"how long resolved api keys are cached, 0 disables the cache"`
	SiteExternalURL string        `env:"SITE_EXTERNAL_URL" description:"the external url of the web frontend"`
	CORS            bool          `env:"CORS,default=false" description:"enable CORS headers"`
	LogLevel        string        `env:"LOG_LEVEL,default=info" description:"the log level"`

	KafkaBrokers            string `env:"KAFKA_BROKERS" description:"comma separated kafka brokers, notifications are disabled if empty"`
	KafkaTopic              string `env:"KAFKA_TOPIC,default=todo_app_notification" description:"the topic for change notifications"`
	NotificationMaxAttempts int    `env:"NOTIFICATION_MAX_ATTEMPTS,default=3" description:"attempts to publish a notification"`

	KSSDriver    string `env:"KSS_DRIVER" description:"Local or AWSS3 to store compiled code outside of the database"`
	KSSLocalPath string `env:"KSS_LOCAL_PATH,default=kss" description:"base directory of the Local kss driver"`
	KSSKeyPrefix string `env:"KSS_KEY_PREFIX" description:"prefix for all keys in the AWS S3 bucket"`
	AWSRegion    string `env:"AWS_REGION" description:"the region of the AWS S3 bucket"`
	AWSBucket    string `env:"AWS_BUCKET" description:"the AWS S3 bucket"`
	AWSAccessID  string `env:"AWS_ACCESS_ID" description:"the AWS access key id, default credentials are used if empty"`
	AWSAccessKey string `env:"AWS_ACCESS_KEY" description:"the AWS secret access key"`
}

// load decodes the environment and applies the command line flags of cmd
func (s *Service) load(cmd *cobra.Command) error {
	if err := envdecode.Decode(s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("cannot decode environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		s.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("database-url") {
		s.DatabaseURL, _ = flags.GetString("database-url")
	}
	if flags.Changed("auth-service-url") {
		s.AuthServiceURL, _ = flags.GetString("auth-service-url")
	}
	if flags.Changed("site-external-url") {
		s.SiteExternalURL, _ = flags.GetString("site-external-url")
	}

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.InitLogger(level)
	return nil
}

// openDatabase opens the database selected by DB_DRIVER
func (s *Service) openDatabase(ctx context.Context) (*csql.DB, error) {
	dialect, err := csql.ParseDialect(s.DBDriver)
	if err != nil {
		return nil, err
	}
	switch dialect {
	case csql.SQLite:
		return csql.OpenSQLite(ctx, s.SQLitePath)
	default:
		if s.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		return csql.OpenPostgres(ctx, s.DatabaseURL, s.PostgresPassword, s.DBSchema)
	}
}

// kssConfiguration returns the configuration of the key storage service
func (s *Service) kssConfiguration() kss.Configuration {
	return kss.Configuration{
		DriverType:         kss.DriverType(s.KSSDriver),
		LocalConfiguration: &kss.LocalConfiguration{BasePath: s.KSSLocalPath},
		S3Configuration: &kss.S3Configuration{
			AWSRegion:     s.AWSRegion,
			AWSBucketName: s.AWSBucket,
			AccessID:      s.AWSAccessID,
			AccessKey:     s.AWSAccessKey,
			KeyPrefix:     s.KSSKeyPrefix,
		},
	}
}

// kafkaBrokers returns the configured brokers
func (s *Service) kafkaBrokers() []string {
	var brokers []string
	for _, broker := range strings.Split(s.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}
