/*
Package bodyparser decodes request bodies ahead of the handlers.

Two middlewares are provided, JSON and URLEncoded. Each one only acts when the
request carries a body of its media type; the parsed value is stored in the
request context and read back with FromContext or Decode. When neither
middleware matched, handlers see no body at all.
*/
package bodyparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

type ctxKey string

const bodyKey ctxKey = "body"

var ErrNoBody = errors.New("request has no parsed body")

// Error is a body parsing failure with the status the client should get.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func WithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, bodyKey, body)
}

// FromContext returns the parsed body: a map[string]any or []any for JSON,
// a map[string]any for forms.
func FromContext(ctx context.Context) (any, bool) {
	body := ctx.Value(bodyKey)
	return body, body != nil
}

// Decode copies the parsed body into dst using JSON field tags.
func Decode(r *http.Request, dst any) error {
	body, ok := FromContext(r.Context())
	if !ok {
		return ErrNoBody
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// Empty reports whether the request has no parsed body or an empty one.
func Empty(r *http.Request) bool {
	body, ok := FromContext(r.Context())
	if !ok {
		return true
	}
	switch v := body.(type) {
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

type parseFunc func(raw []byte) (any, error)

func middleware(mediaType string, limit int64, parse parseFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, parsed := FromContext(r.Context()); parsed || !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := matchType(r, mediaType)
			if err != nil {
				respondWithError(w, err)
				return
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := readBody(w, r, limit)
			if err != nil {
				respondWithError(w, err)
				return
			}

			body, err := parse(raw)
			if err != nil {
				respondWithError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithBody(r.Context(), body)))
		})
	}
}

func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

// matchType reports whether the request is of mediaType. A matching type with
// a charset other than utf-8 is rejected.
func matchType(r *http.Request, mediaType string) (bool, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false, nil
	}
	parsed, params, err := mime.ParseMediaType(contentType)
	if err != nil || parsed != mediaType {
		return false, nil
	}
	if charset, ok := params["charset"]; ok && !strings.EqualFold(charset, "utf-8") {
		return false, newError(http.StatusUnsupportedMediaType, "unsupported charset %q", strings.ToUpper(charset))
	}
	return true, nil
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.ContentLength > limit {
		return nil, newError(http.StatusRequestEntityTooLarge, "request entity too large")
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, newError(http.StatusRequestEntityTooLarge, "request entity too large")
		}
		return nil, newError(http.StatusBadRequest, "failed to read request body")
	}
	return raw, nil
}

func respondWithError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	var parseErr *Error
	if errors.As(err, &parseErr) {
		status = parseErr.Status
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}
