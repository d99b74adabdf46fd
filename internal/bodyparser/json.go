package bodyparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSON parses application/json bodies up to limit bytes. Only objects and
// arrays are accepted at the top level; an empty body becomes an empty object.
func JSON(limit int64) func(http.Handler) http.Handler {
	return middleware("application/json", limit, parseJSON)
}

func parseJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, newError(http.StatusBadRequest, "invalid JSON body: top level value must be an object or an array")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, newError(http.StatusBadRequest, "invalid JSON body: %v", err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, newError(http.StatusBadRequest, "invalid JSON body: unexpected data after top level value")
	}

	return body, nil
}
