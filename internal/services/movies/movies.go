package movies

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lealre/cinema-server/internal/mongodb"
)

var ErrValidation = errors.New("movie validation failed")

// Store is the persistence the movie operations need; *mongodb.DB satisfies it.
type Store interface {
	AddMovie(ctx context.Context, movie mongodb.MovieDb) (mongodb.MovieDb, error)
	GetMovieById(ctx context.Context, id string) (mongodb.MovieDb, error)
	GetMovies(ctx context.Context, args ...any) ([]mongodb.MovieDb, error)
	UpdateMovie(ctx context.Context, id string, movie mongodb.MovieDb) (mongodb.MovieDb, error)
	DeleteMovie(ctx context.Context, id string) (mongodb.MovieDb, error)
}

// ValidateMovieRequest checks the required fields, reporting every missing one.
func ValidateMovieRequest(req MovieRequest) error {
	var problems []string

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if len(req.Time) == 0 {
		problems = append(problems, "time is required")
	}
	if req.Rating == nil {
		problems = append(problems, "rating is required")
	} else if math.IsNaN(req.Rating.Value) || math.IsInf(req.Rating.Value, 0) {
		problems = append(problems, "rating must be a finite number")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, ", "))
	}
	return nil
}

func AddMovie(db Store, ctx context.Context, req MovieRequest) (Movie, error) {
	if err := ValidateMovieRequest(req); err != nil {
		return Movie{}, err
	}

	movieDb, err := db.AddMovie(ctx, MapMovieRequestToDbMovie(req))
	if err != nil {
		return Movie{}, err
	}

	return MapDbMovieToApiMovie(movieDb), nil
}

func GetMovieById(db Store, ctx context.Context, id string) (Movie, error) {
	movieDb, err := db.GetMovieById(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	return MapDbMovieToApiMovie(movieDb), nil
}

func GetMovies(db Store, ctx context.Context) ([]Movie, error) {
	moviesDb, err := db.GetMovies(ctx)
	if err != nil {
		return nil, err
	}

	allMovies := make([]Movie, len(moviesDb))
	for i, movieDb := range moviesDb {
		allMovies[i] = MapDbMovieToApiMovie(movieDb)
	}
	return allMovies, nil
}

/*
UpdateMovie replaces name, time and rating of an existing movie.

The movie is looked up before the request is validated, so an unknown id is
reported as mongodb.ErrRecordNotFound even when the body is incomplete.
*/
func UpdateMovie(db Store, ctx context.Context, id string, req MovieRequest) (Movie, error) {
	if _, err := db.GetMovieById(ctx, id); err != nil {
		return Movie{}, err
	}

	if err := ValidateMovieRequest(req); err != nil {
		return Movie{}, err
	}

	movieDb, err := db.UpdateMovie(ctx, id, MapMovieRequestToDbMovie(req))
	if err != nil {
		return Movie{}, err
	}

	return MapDbMovieToApiMovie(movieDb), nil
}

func DeleteMovie(db Store, ctx context.Context, id string) (Movie, error) {
	movieDb, err := db.DeleteMovie(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	return MapDbMovieToApiMovie(movieDb), nil
}
