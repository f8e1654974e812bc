package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The connect call can succeed against an unresponsive server.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection this package owns.
// Failures are logged per collection and never abort startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	EnsureUserIndexes(ctx, db.Collection(userCollectionName))
	EnsureRecipeIndexes(ctx, db.Collection(recipeCollectionName))
	EnsureScheduleIndexes(ctx, db.Collection(scheduleCollectionName))
	EnsureTrackerIndexes(ctx, db.Collection(trackerCollectionName))
	EnsureSavedRecipeIndexes(ctx, db.Collection(savedRecipeCollectionName))
	log.Println("Index creation process completed.")
}
