// Package mongotest gives repository tests a migrated throwaway database.
// Tests are skipped unless TEST_MONGO_URI is set.
package mongotest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	migrations "tenniscourts/internal/migrations/mongo"
	"tenniscourts/pkg/config"
	"tenniscourts/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EnvMongoURI = "TEST_MONGO_URI"

	ConnectionTimeout = 10 * time.Second
)

type Helper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Setup connects, migrates a database unique to t and returns a config whose
// client points at it. The database is dropped when t finishes.
func Setup(t *testing.T) (*config.Config, *Helper) {
	t.Helper()

	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		t.Skipf("%s not set", EnvMongoURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	cfg := config.Defaults()
	cfg.Log = logger.NewNop()
	cfg.MongoDatabaseName = fmt.Sprintf("courts_test_%d", time.Now().UnixNano())
	cfg.Client.Mongo = client

	h := &Helper{Client: client, Database: client.Database(cfg.MongoDatabaseName)}
	if err := migrations.RunMigration(ctx, h.Database, cfg.Log); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Database.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop %s: %v", cfg.MongoDatabaseName, err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("warning: failed to disconnect from MongoDB: %v", err)
		}
	})
	return cfg, h
}

// CountDocuments returns the number of documents in a collection.
func (h *Helper) CountDocuments(t *testing.T, collection string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := h.Database.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collection, err)
	}
	return count
}

// Insert writes a raw document, bypassing repositories.
func (h *Helper) Insert(t *testing.T, collection string, doc any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.Database.Collection(collection).InsertOne(ctx, doc); err != nil {
		t.Fatalf("failed to insert into %s: %v", collection, err)
	}
}
