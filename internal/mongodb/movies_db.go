package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ----- Types for the database -----

type MovieDb struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Time      []string           `json:"time" bson:"time"`
	Rating    float64            `json:"rating" bson:"rating"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ----- Methods for the database -----

func (db *DB) AddMovie(ctx context.Context, movie MovieDb) (MovieDb, error) {
	coll := db.Collection(MoviesCollection)

	movie.Id = primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	movie.CreatedAt = now
	movie.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, movie); err != nil {
		return MovieDb{}, err
	}

	return movie, nil
}

func (db *DB) GetMovieById(ctx context.Context, id string) (MovieDb, error) {
	oid, err := parseObjectId(id)
	if err != nil {
		return MovieDb{}, err
	}

	coll := db.Collection(MoviesCollection)
	var movie MovieDb
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&movie); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MovieDb{}, ErrRecordNotFound
		}
		return MovieDb{}, err
	}

	return movie, nil
}

/*
GetMovies returns the movies matching the optional filter (bson.M) and find
options (*options.FindOptions) passed in args. With no args every movie is
returned, oldest first.
*/
func (db *DB) GetMovies(ctx context.Context, args ...any) ([]MovieDb, error) {
	coll := db.Collection(MoviesCollection)

	filter, opts := ResolveFilterAndOptionsSearch(args...)
	if len(opts) == 0 {
		opts = append(opts, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	}

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	allMovies := []MovieDb{}
	if err := cursor.All(ctx, &allMovies); err != nil {
		return []MovieDb{}, err
	}

	return allMovies, nil
}

// UpdateMovie replaces the editable fields of a movie and returns the stored result.
func (db *DB) UpdateMovie(ctx context.Context, id string, movie MovieDb) (MovieDb, error) {
	oid, err := parseObjectId(id)
	if err != nil {
		return MovieDb{}, err
	}

	coll := db.Collection(MoviesCollection)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	update := bson.M{
		"$set": bson.M{
			"name":      movie.Name,
			"time":      movie.Time,
			"rating":    movie.Rating,
			"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	var updated MovieDb
	if err := coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MovieDb{}, ErrRecordNotFound
		}
		return MovieDb{}, err
	}

	return updated, nil
}

// DeleteMovie removes a movie and returns the document as it was before deletion.
func (db *DB) DeleteMovie(ctx context.Context, id string) (MovieDb, error) {
	oid, err := parseObjectId(id)
	if err != nil {
		return MovieDb{}, err
	}

	coll := db.Collection(MoviesCollection)
	var deleted MovieDb
	if err := coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MovieDb{}, ErrRecordNotFound
		}
		return MovieDb{}, err
	}

	return deleted, nil
}
