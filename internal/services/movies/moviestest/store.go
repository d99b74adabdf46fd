// Package moviestest provides an in-memory movies.Store for tests.
package moviestest

import (
	"context"
	"sync"
	"time"

	"github.com/lealre/cinema-server/internal/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps movies in insertion order. When Err is set every call fails with it.
type Store struct {
	mu     sync.Mutex
	movies []mongodb.MovieDb
	Err    error
}

func NewStore(seed ...mongodb.MovieDb) *Store {
	return &Store{movies: append([]mongodb.MovieDb(nil), seed...)}
}

func (s *Store) AddMovie(ctx context.Context, movie mongodb.MovieDb) (mongodb.MovieDb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return mongodb.MovieDb{}, s.Err
	}

	now := time.Now().UTC()
	movie.Id = primitive.NewObjectID()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	s.movies = append(s.movies, movie)
	return movie, nil
}

func (s *Store) GetMovieById(ctx context.Context, id string) (mongodb.MovieDb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return mongodb.MovieDb{}, err
	}
	return s.movies[i], nil
}

func (s *Store) GetMovies(ctx context.Context, args ...any) ([]mongodb.MovieDb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]mongodb.MovieDb, len(s.movies))
	copy(out, s.movies)
	return out, nil
}

func (s *Store) UpdateMovie(ctx context.Context, id string, movie mongodb.MovieDb) (mongodb.MovieDb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return mongodb.MovieDb{}, err
	}
	s.movies[i].Name = movie.Name
	s.movies[i].Time = movie.Time
	s.movies[i].Rating = movie.Rating
	s.movies[i].UpdatedAt = time.Now().UTC()
	return s.movies[i], nil
}

func (s *Store) DeleteMovie(ctx context.Context, id string) (mongodb.MovieDb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.find(id)
	if err != nil {
		return mongodb.MovieDb{}, err
	}
	deleted := s.movies[i]
	s.movies = append(s.movies[:i], s.movies[i+1:]...)
	return deleted, nil
}

// Len returns how many movies are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movies)
}

func (s *Store) find(id string) (int, error) {
	if s.Err != nil {
		return -1, s.Err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1, mongodb.ErrInvalidId
	}
	for i, movie := range s.movies {
		if movie.Id == oid {
			return i, nil
		}
	}
	return -1, mongodb.ErrRecordNotFound
}
