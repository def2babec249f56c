package persistence

import (
	"context"
	"errors"
	"time"

	"cpaptracker-service/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOptions describes the notification history database
type MongoOptions struct {
	URI            string
	Username       string
	Password       string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
}

// DefaultConnectTimeout bounds connect plus ping when MongoOptions leaves it unset
const DefaultConnectTimeout = 10 * time.Second

func (o MongoOptions) clientOptions() *options.ClientOptions {
	clientOptions := options.Client().ApplyURI(o.URI)
	if o.Username != "" && o.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: o.Username,
			Password: o.Password,
		})
	}
	if o.AppName != "" {
		clientOptions.SetAppName(o.AppName)
	}
	return clientOptions
}

// NewMongoDatabase connects, pings and returns the configured database.
// Close it with db.Client().Disconnect.
func NewMongoDatabase(ctx context.Context, opts MongoOptions, log logger.Logger) (*mongo.Database, error) {
	if opts.URI == "" {
		return nil, errors.New("mongodb uri is required")
	}
	if opts.Database == "" {
		return nil, errors.New("mongodb database name is required")
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts.clientOptions())
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Connected to MongoDB", "database", opts.Database)
	return client.Database(opts.Database), nil
}
