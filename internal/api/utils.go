package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lealre/cinema-server/internal/mongodb"
	"github.com/lealre/cinema-server/internal/services/movies"
)

// MovieResponse is the envelope of every movie route response.
type MovieResponse struct {
	Success bool   `json:"success"`
	Id      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FailureResponse is the body of a create or update that was not applied.
type FailureResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var ErrorMap = map[error]int{
	mongodb.ErrRecordNotFound: http.StatusNotFound,
	mongodb.ErrInvalidId:      http.StatusBadRequest,
	movies.ErrValidation:      http.StatusBadRequest,
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) error {
	response, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)

	return nil
}

func respondWithError(w http.ResponseWriter, code int, msg string) error {
	return respondWithJSON(w, code, MovieResponse{Success: false, Error: msg})
}

func formatErrorMessage(err error) string {
	errorMsg := err.Error()
	if len(errorMsg) > 0 {
		return strings.ToUpper(errorMsg[:1]) + errorMsg[1:]
	}
	return ""
}

// getErrorStatusCode safely checks if an error is in the ErrorMap by iterating through it
// and using errors.Is() to match errors. This prevents panics when non-hashable errors
// (like MongoDB errors) are passed as map keys.
func getErrorStatusCode(errMap map[error]int, err error) (int, bool) {
	for predefinedErr, statusCode := range errMap {
		if errors.Is(err, predefinedErr) {
			return statusCode, true
		}
	}
	return 0, false
}
