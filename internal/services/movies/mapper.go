package movies

import (
	"github.com/lealre/cinema-server/internal/mongodb"
)

func MapDbMovieToApiMovie(movie mongodb.MovieDb) Movie {
	showTimes := movie.Time
	if showTimes == nil {
		showTimes = []string{}
	}

	return Movie{
		Id:        movie.Id.Hex(),
		Name:      movie.Name,
		Time:      showTimes,
		Rating:    movie.Rating,
		CreatedAt: movie.CreatedAt,
		UpdatedAt: movie.UpdatedAt,
	}
}

func MapMovieRequestToDbMovie(req MovieRequest) mongodb.MovieDb {
	movie := mongodb.MovieDb{Time: []string(req.Time)}
	if req.Name != nil {
		movie.Name = *req.Name
	}
	if req.Rating != nil {
		movie.Rating = req.Rating.Value
	}
	return movie
}
