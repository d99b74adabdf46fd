package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lealre/cinema-server/internal/config"
	"github.com/lealre/cinema-server/internal/mongodb"
	"github.com/lealre/cinema-server/internal/services/movies"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	fixturePath := flag.String("file", "fixtures/movies.json", "JSON file with the movies to insert")
	flag.Parse()

	data, err := os.ReadFile(*fixturePath)
	if err != nil {
		logrus.Fatalf("could not read fixture file: %v", err)
	}

	var requests []movies.MovieRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		logrus.Fatalf("could not unmarshal fixture JSON: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	dbClient, err := mongodb.Connect(ctx, cfg.MongoURI, nil)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer dbClient.Disconnect(ctx)

	db := mongodb.NewDB(dbClient, cfg.DatabaseName)
	for _, req := range requests {
		movie, err := movies.AddMovie(db, ctx, req)
		if err != nil {
			logrus.Fatalf("could not insert movie: %v", err)
		}
		fmt.Printf("✅ Inserted '%s' (%s)\n", movie.Name, movie.Id)
	}
}
