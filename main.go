package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lealre/cinema-server/internal/api"
	"github.com/lealre/cinema-server/internal/config"
	"github.com/lealre/cinema-server/internal/logx"
	"github.com/lealre/cinema-server/internal/mongodb"
	"github.com/lealre/cinema-server/internal/server"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		logx.New(os.Stderr).Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter := mongodb.NewErrorReporter(0)
	client, err := mongodb.Connect(ctx, cfg.MongoURI, reporter)
	if err != nil {
		return fmt.Errorf("configure MongoDB client: %w", err)
	}
	defer client.Disconnect(context.Background())

	// The server starts even when the database is unreachable.
	go mongodb.CheckConnection(ctx, client, reporter)

	db := mongodb.NewDB(client, cfg.DatabaseName)
	srv := server.NewServer(cfg, api.NewAPI(db), reporter.Errors())

	return srv.Run(ctx)
}
