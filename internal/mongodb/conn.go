package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const pingTimeout = 10 * time.Second

// Connect creates a client for uri. Topology errors seen by the driver after
// this point are sent to reporter.
func Connect(ctx context.Context, uri string, reporter *ErrorReporter) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri)
	if reporter != nil {
		opts.SetServerMonitor(reporter.ServerMonitor())
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	return client, nil
}

// CheckConnection pings the primary and reports a failure instead of
// returning it, so the caller can keep serving while the database is down.
func CheckConnection(ctx context.Context, client *mongo.Client, reporter *ErrorReporter) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		reporter.Report(fmt.Errorf("mongo ping: %w", err))
	}
}
