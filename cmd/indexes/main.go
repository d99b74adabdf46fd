package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lealre/cinema-server/internal/config"
	"github.com/lealre/cinema-server/internal/mongodb"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	resetIndexes := flag.Bool("reset", false, "Delete the indexes and recreate them")
	deleteIndexes := flag.Bool("delete", false, "Delete the indexes")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	dbClient, err := mongodb.Connect(ctx, cfg.MongoURI, nil)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer dbClient.Disconnect(ctx)

	db := mongodb.NewDB(dbClient, cfg.DatabaseName)
	database := db.Database()
	fmt.Printf("Managing indexes of database %q\n", db.GetDatabaseName())

	if *deleteIndexes {
		if err := mongodb.DeleteAllIndexes(ctx, database, os.Stdout); err != nil {
			logrus.Fatalf("Failed to delete indexes: %v", err)
		}
		fmt.Println("✅ All indexes deleted successfully!")
		return
	}

	if err := mongodb.CreateAllIndexes(ctx, database, *resetIndexes, os.Stdout); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}
	fmt.Println("✅ All indexes created successfully!")
}
