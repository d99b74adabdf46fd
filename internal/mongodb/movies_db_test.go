package mongodb

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testDbName = "testDb"

// newTestDB starts a throwaway mongo container and returns a DB bound to it.
func newTestDB(t *testing.T) (*DB, *ErrorReporter) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	}
	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongoC.Terminate(context.Background()) })

	endpoint, err := mongoC.Endpoint(ctx, "")
	require.NoError(t, err)

	reporter := NewErrorReporter(0)
	client, err := Connect(ctx, "mongodb://"+endpoint, reporter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return NewDB(client, testDbName), reporter
}

func TestMoviesRepository(t *testing.T) {
	db, reporter := newTestDB(t)
	ctx := context.Background()

	t.Run("connection check reports nothing when healthy", func(t *testing.T) {
		CheckConnection(ctx, db.client, reporter)
		require.Empty(t, reporter.Errors())
	})

	t.Run("empty collection", func(t *testing.T) {
		movies, err := db.GetMovies(ctx)
		require.NoError(t, err)
		require.NotNil(t, movies)
		require.Empty(t, movies)
	})

	var created MovieDb
	t.Run("add and get", func(t *testing.T) {
		var err error
		created, err = db.AddMovie(ctx, MovieDb{Name: "Heat", Time: []string{"18:00", "21:00"}, Rating: 8.3})
		require.NoError(t, err)
		require.False(t, created.Id.IsZero())
		require.False(t, created.CreatedAt.IsZero())

		found, err := db.GetMovieById(ctx, created.Id.Hex())
		require.NoError(t, err)
		require.Equal(t, "Heat", found.Name)
		require.Equal(t, []string{"18:00", "21:00"}, found.Time)
		require.Equal(t, 8.3, found.Rating)
	})

	t.Run("get unknown and invalid ids", func(t *testing.T) {
		_, err := db.GetMovieById(ctx, primitive.NewObjectID().Hex())
		require.ErrorIs(t, err, ErrRecordNotFound)

		_, err = db.GetMovieById(ctx, "nope")
		require.ErrorIs(t, err, ErrInvalidId)
	})

	t.Run("list with filter", func(t *testing.T) {
		_, err := db.AddMovie(ctx, MovieDb{Name: "Alien", Time: []string{"20:00"}, Rating: 8.5})
		require.NoError(t, err)

		all, err := db.GetMovies(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "Heat", all[0].Name)

		filtered, err := db.GetMovies(ctx, bson.M{"name": "Alien"})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := db.UpdateMovie(ctx, created.Id.Hex(), MovieDb{Name: "Heat (1995)", Time: []string{"22:00"}, Rating: 9})
		require.NoError(t, err)
		require.Equal(t, "Heat (1995)", updated.Name)
		require.Equal(t, []string{"22:00"}, updated.Time)
		require.True(t, created.CreatedAt.Equal(updated.CreatedAt))

		_, err = db.UpdateMovie(ctx, primitive.NewObjectID().Hex(), MovieDb{Name: "x"})
		require.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := db.DeleteMovie(ctx, created.Id.Hex())
		require.NoError(t, err)
		require.Equal(t, "Heat (1995)", deleted.Name)

		_, err = db.DeleteMovie(ctx, created.Id.Hex())
		require.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("indexes", func(t *testing.T) {
		require.Equal(t, testDbName, db.GetDatabaseName())
		require.Equal(t, db.GetDatabaseName(), db.Database().Name())

		var out bytes.Buffer
		require.NoError(t, CreateAllIndexes(ctx, db.Database(), false, &out))
		require.Contains(t, out.String(), "Created index 'name_1'")

		out.Reset()
		require.NoError(t, CreateAllIndexes(ctx, db.Database(), false, &out))
		require.Contains(t, out.String(), "already exists")

		out.Reset()
		require.NoError(t, CreateAllIndexes(ctx, db.Database(), true, &out))
		require.Contains(t, out.String(), "Deleted index 'name_1'")

		out.Reset()
		require.NoError(t, DeleteAllIndexes(ctx, db.Database(), &out))
		names, err := listIndexNames(ctx, db.Collection(MoviesCollection))
		require.NoError(t, err)
		require.Equal(t, []string{"_id_"}, names)
	})
}
