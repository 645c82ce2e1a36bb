package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// ClientOptions builds the driver options for the configured deployment
func ClientOptions(cfg *config.DBConfig) *options.ClientOptions {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	return options.Client().
		ApplyURI(cfg.GetURI()).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(uint64(cfg.MaxPoolSize))
}

// InitDB connects to the document store once for the process lifetime and
// verifies the deployment answers a ping
func InitDB(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	if db != nil {
		return db, nil
	}

	c, err := mongo.Connect(ctx, ClientOptions(&cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DB.ConnectTimeout)
	defer cancel()
	if err := c.Database("admin").RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client = c
	db = c.Database(cfg.DB.Name)
	return db, nil
}

// GetDB returns the database handle shared by all request handlers
func GetDB() *mongo.Database {
	return db
}

// Ping checks that the deployment is reachable
func Ping(ctx context.Context) error {
	if client == nil {
		return errors.New("database is not initialized")
	}
	return client.Ping(ctx, nil)
}

// Disconnect closes the shared client on shutdown
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	err := client.Disconnect(ctx)
	client, db = nil, nil
	return err
}
