package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/lealre/cinema-server/internal/api"
	"github.com/lealre/cinema-server/internal/bodyparser"
	"github.com/lealre/cinema-server/internal/config"
	"github.com/lealre/cinema-server/internal/logx"
	"github.com/sirupsen/logrus"
)

const (
	apiPrefix         = "/api"
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

/*
Server serves the movie API.

Fields:
- Config: port and body limit
- API: movie routes, mounted under /api
- DbErrors: database connection errors, logged as they arrive
- Logger: startup and request logs (stdout)
- ErrLogger: database errors (stderr)
*/
type Server struct {
	Config    config.Config
	API       *api.API
	DbErrors  <-chan error
	Logger    *logrus.Logger
	ErrLogger *logrus.Logger
}

func NewServer(cfg config.Config, movieApi *api.API, dbErrors <-chan error) *Server {
	return &Server{
		Config:    cfg,
		API:       movieApi,
		DbErrors:  dbErrors,
		Logger:    logx.New(os.Stdout),
		ErrLogger: logx.New(os.Stderr),
	}
}

// Handler builds the middleware chain. Middlewares run in the order listed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(apiPrefix+"/", http.StripPrefix(apiPrefix, s.API.Router()))

	chain := []func(http.Handler) http.Handler{
		RequestIdMiddleware(s.Logger),
		bodyparser.URLEncoded(s.Config.BodyLimit),
		bodyparser.JSON(s.Config.BodyLimit),
		CorsMiddleware(),
		PreflightMiddleware,
	}

	var handler http.Handler = mux
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}

// Run listens on the configured port and serves until ctx is cancelled.
// Bind failures are returned to the caller.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Config.Port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", s.Config.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.watchDatabase(watchCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.Logger.Infof("Server running on port %s", s.Config.Port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// watchDatabase logs database errors until ctx is done. Errors never stop
// the server and are not retried here.
func (s *Server) watchDatabase(ctx context.Context) {
	if s.DbErrors == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-s.DbErrors:
			s.ErrLogger.Errorf("MongoDB connection error: %v", err)
		}
	}
}
