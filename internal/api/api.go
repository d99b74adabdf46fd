package api

import (
	"net/http"

	"github.com/lealre/cinema-server/internal/services/movies"
)

type API struct {
	Db movies.Store
}

func NewAPI(db movies.Store) *API {
	return &API{Db: db}
}

// Router returns the movie routes, relative to the prefix they are mounted on.
func (api *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /movie", api.CreateMovie)
	mux.HandleFunc("PUT /movie/{id}", api.UpdateMovie)
	mux.HandleFunc("DELETE /movie/{id}", api.DeleteMovie)
	mux.HandleFunc("GET /movie/{id}", api.GetMovieById)
	mux.HandleFunc("GET /movies", api.GetMovies)

	return mux
}
