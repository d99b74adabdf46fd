package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/lealre/cinema-server/internal/logx"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type contextKey string

const requestIdKey contextKey = "requestId"

var allowedMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPut,
	http.MethodPatch,
	http.MethodPost,
	http.MethodDelete,
}

////////////////////////////////////////////////////////////////////////////
//  LOGGER MIDDLEWARE
////////////////////////////////////////////////////////////////////////////

// Creates a unique 5-character identifier
func generateRequestId() string {
	bytes := make([]byte, 3) // 3 bytes = 6 hex chars, we'll take first 5
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:5]
}

// responseRecorder wraps http.ResponseWriter to capture status code
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rr *responseRecorder) WriteHeader(statusCode int) {
	rr.statusCode = statusCode
	rr.ResponseWriter.WriteHeader(statusCode)
}

/*
RequestIdMiddleware creates a unique request ID for each request and stores it in the context.
Creates a logger carrying the request ID, method and path and stores it in the context.
- Logs when receives a request
- Logs when returns the response with time the request took and status code

Handlers can retrieve the logger using logx.FromContext(r.Context()).
*/
func RequestIdMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := generateRequestId()
			startTime := time.Now()

			entry := logger.WithFields(logrus.Fields{
				"requestId": requestId,
				"method":    r.Method,
				"path":      r.URL.Path,
			})

			entry.Info("Request received...")

			ctx := context.WithValue(r.Context(), requestIdKey, requestId)
			ctx = logx.WithLogger(ctx, entry)
			r = r.WithContext(ctx)

			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(startTime)
			if duration > time.Second {
				entry.Infof("Request completed in %.2fs (status %d)", duration.Seconds(), recorder.statusCode)
			} else {
				entry.Infof("Request completed in %dms (status %d)", duration.Milliseconds(), recorder.statusCode)
			}
		})
	}
}

////////////////////////////////////////////////////////////////////////////
//  CORS MIDDLEWARE
////////////////////////////////////////////////////////////////////////////

// CorsMiddleware allows any origin to call the API with the usual methods and any header.
// Requests without an Origin header still get Access-Control-Allow-Origin: *.
// OPTIONS requests are passed on to PreflightMiddleware, which answers them.
func CorsMiddleware() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     allowedMethods,
		AllowedHeaders:     []string{"*"},
		OptionsPassthrough: true,
	})
	return func(next http.Handler) http.Handler {
		handler := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Origin") == "" {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			handler.ServeHTTP(w, r)
		})
	}
}

// PreflightMiddleware answers every OPTIONS request with 204 and permissive
// CORS headers, including those without Access-Control-Request-Method.
func PreflightMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", strings.Join(allowedMethods, ","))
		if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
			header.Set("Access-Control-Allow-Headers", requested)
			header.Add("Vary", "Access-Control-Request-Headers")
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
