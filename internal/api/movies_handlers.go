package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lealre/cinema-server/internal/bodyparser"
	"github.com/lealre/cinema-server/internal/logx"
	"github.com/lealre/cinema-server/internal/mongodb"
	"github.com/lealre/cinema-server/internal/services/movies"
)

func (api *API) CreateMovie(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())

	if bodyparser.Empty(r) {
		respondWithError(w, http.StatusBadRequest, "You must provide a movie")
		return
	}

	req, err := decodeMovieRequest(r)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, FailureResponse{Error: formatErrorMessage(err), Message: "Movie not created!"})
		return
	}

	movie, err := movies.AddMovie(api.Db, r.Context(), req)
	if err != nil {
		if statusCode, ok := getErrorStatusCode(ErrorMap, err); ok {
			respondWithJSON(w, statusCode, FailureResponse{Error: formatErrorMessage(err), Message: "Movie not created!"})
			return
		}
		logger.Errorf("adding movie: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, FailureResponse{Error: "Unexpected error while adding movie", Message: "Movie not created!"})
		return
	}

	respondWithJSON(w, http.StatusCreated, MovieResponse{Success: true, Id: movie.Id, Message: "Movie created!"})
}

func (api *API) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())
	movieId := r.PathValue("id")

	if bodyparser.Empty(r) {
		respondWithError(w, http.StatusBadRequest, "You must provide a body to update")
		return
	}

	req, err := decodeMovieRequest(r)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, FailureResponse{Error: formatErrorMessage(err), Message: "Movie not updated!"})
		return
	}

	movie, err := movies.UpdateMovie(api.Db, r.Context(), movieId, req)
	if err != nil {
		if errors.Is(err, mongodb.ErrRecordNotFound) {
			respondWithJSON(w, http.StatusNotFound, FailureResponse{Error: "Movie not found", Message: "Movie not found!"})
			return
		}
		if statusCode, ok := getErrorStatusCode(ErrorMap, err); ok {
			respondWithJSON(w, statusCode, FailureResponse{Error: formatErrorMessage(err), Message: "Movie not updated!"})
			return
		}
		logger.Errorf("updating movie %s: %v", movieId, err)
		respondWithJSON(w, http.StatusInternalServerError, FailureResponse{Error: "Unexpected error while updating movie", Message: "Movie not updated!"})
		return
	}

	respondWithJSON(w, http.StatusOK, MovieResponse{Success: true, Id: movie.Id, Message: "Movie updated!"})
}

func (api *API) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())
	movieId := r.PathValue("id")

	movie, err := movies.DeleteMovie(api.Db, r.Context(), movieId)
	if err != nil {
		respondWithMovieLookupError(w, logger.Errorf, err, movieId)
		return
	}

	respondWithJSON(w, http.StatusOK, MovieResponse{Success: true, Data: movie})
}

func (api *API) GetMovieById(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())
	movieId := r.PathValue("id")

	movie, err := movies.GetMovieById(api.Db, r.Context(), movieId)
	if err != nil {
		respondWithMovieLookupError(w, logger.Errorf, err, movieId)
		return
	}

	respondWithJSON(w, http.StatusOK, MovieResponse{Success: true, Data: movie})
}

func (api *API) GetMovies(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())

	allMovies, err := movies.GetMovies(api.Db, r.Context())
	if err != nil {
		logger.Errorf("listing movies: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch movies from database")
		return
	}

	if len(allMovies) == 0 {
		respondWithError(w, http.StatusNotFound, "Movie not found")
		return
	}

	respondWithJSON(w, http.StatusOK, MovieResponse{Success: true, Data: allMovies})
}

func decodeMovieRequest(r *http.Request) (movies.MovieRequest, error) {
	var req movies.MovieRequest
	if err := bodyparser.Decode(r, &req); err != nil {
		return movies.MovieRequest{}, fmt.Errorf("%w: %v", movies.ErrValidation, err)
	}
	return req, nil
}

func respondWithMovieLookupError(w http.ResponseWriter, logf func(string, ...any), err error, movieId string) {
	switch {
	case errors.Is(err, mongodb.ErrRecordNotFound):
		respondWithError(w, http.StatusNotFound, "Movie not found")
	case errors.Is(err, mongodb.ErrInvalidId):
		respondWithError(w, http.StatusBadRequest, formatErrorMessage(err))
	default:
		logf("looking up movie %s: %v", movieId, err)
		respondWithError(w, http.StatusInternalServerError, "Database error while looking up movie")
	}
}
