package mongodb

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	moviesNameIndexName      = "name_1"
	moviesCreatedAtIndexName = "createdAt_1"
)

// DeleteAllIndexes deletes all indexes from all collections in the database
// (except the default _id_ index which cannot be deleted)
func DeleteAllIndexes(ctx context.Context, db *mongo.Database, out io.Writer) error {
	collections, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, collName := range collections {
		coll := db.Collection(collName)

		names, err := listIndexNames(ctx, coll)
		if err != nil {
			return fmt.Errorf("failed to list indexes for collection '%s': %w", collName, err)
		}

		for _, indexName := range names {
			if indexName == "_id_" {
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, indexName); err != nil {
				return fmt.Errorf("failed to delete index '%s' from collection '%s': %w", indexName, collName, err)
			}
			fmt.Fprintf(out, "🗑️  Deleted index '%s' from collection '%s'\n", indexName, collName)
		}
	}

	return nil
}

// CreateAllIndexes creates the indexes used by the movie queries.
// With reset, existing indexes of the same name are dropped and recreated.
func CreateAllIndexes(ctx context.Context, db *mongo.Database, reset bool, out io.Writer) error {
	if err := CreateMovieIndexes(ctx, db, reset, out); err != nil {
		return fmt.Errorf("failed to create movie indexes: %w", err)
	}
	return nil
}

func CreateMovieIndexes(ctx context.Context, db *mongo.Database, reset bool, out io.Writer) error {
	coll := db.Collection(MoviesCollection)

	// Lookups by name are case-insensitive
	nameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
		Options: options.Index().
			SetName(moviesNameIndexName).
			SetCollation(&options.Collation{
				Locale:   "en",
				Strength: 2,
			}),
	}
	if err := createIndexIfNotExists(ctx, coll, nameIndex, moviesNameIndexName, reset, out); err != nil {
		return err
	}

	// GET /movies lists oldest first
	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName(moviesCreatedAtIndexName),
	}
	if err := createIndexIfNotExists(ctx, coll, createdAtIndex, moviesCreatedAtIndexName, reset, out); err != nil {
		return err
	}

	return nil
}

// createIndexIfNotExists checks if an index exists and creates it if it doesn't
// If reset is true, it will delete the existing index and recreate it
func createIndexIfNotExists(ctx context.Context, coll *mongo.Collection, indexModel mongo.IndexModel, indexName string, reset bool, out io.Writer) error {
	names, err := listIndexNames(ctx, coll)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	indexExists := false
	for _, name := range names {
		if name == indexName {
			indexExists = true
			break
		}
	}

	if indexExists {
		if !reset {
			fmt.Fprintf(out, "ℹ️  Index '%s' already exists on collection '%s', skipping...\n", indexName, coll.Name())
			return nil
		}
		if _, err := coll.Indexes().DropOne(ctx, indexName); err != nil {
			return fmt.Errorf("failed to delete index '%s': %w", indexName, err)
		}
		fmt.Fprintf(out, "🗑️  Deleted index '%s' on collection '%s'\n", indexName, coll.Name())
	}

	if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create index '%s': %w", indexName, err)
	}

	fmt.Fprintf(out, "✅ Created index '%s' on collection '%s'\n", indexName, coll.Name())
	return nil
}

func listIndexNames(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			return nil, fmt.Errorf("failed to decode index: %w", err)
		}
		if name, ok := index["name"].(string); ok {
			names = append(names, name)
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return names, nil
}
