package persistence

import (
	"context"
	"testing"

	"cpaptracker-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoOptions_ClientOptions(t *testing.T) {
	opts := MongoOptions{
		URI:      "mongodb://localhost:27017",
		Username: "tracker",
		Password: "secret",
		AppName:  "cpaptracker",
	}

	co := opts.clientOptions()
	require.NotNil(t, co.Auth)
	assert.Equal(t, "tracker", co.Auth.Username)
	assert.Equal(t, "secret", co.Auth.Password)
	require.NotNil(t, co.AppName)
	assert.Equal(t, "cpaptracker", *co.AppName)
	assert.Equal(t, []string{"localhost:27017"}, co.Hosts)
}

func TestMongoOptions_NoCredentials(t *testing.T) {
	co := MongoOptions{URI: "mongodb://localhost:27017", Username: "tracker"}.clientOptions()
	assert.Nil(t, co.Auth)
	assert.Nil(t, co.AppName)
}

func TestNewMongoDatabase_RequiresURIAndDatabase(t *testing.T) {
	ctx := context.Background()

	_, err := NewMongoDatabase(ctx, MongoOptions{Database: "cpaptracker"}, logger.NewNopLogger())
	assert.ErrorContains(t, err, "uri is required")

	_, err = NewMongoDatabase(ctx, MongoOptions{URI: "mongodb://localhost:27017"}, logger.NewNopLogger())
	assert.ErrorContains(t, err, "database name is required")
}
