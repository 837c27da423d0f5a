package achievements_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scythe504/goroda-bot/internal"
	"github.com/scythe504/goroda-bot/internal/achievements"
	"github.com/scythe504/goroda-bot/migrations"
)

var sink *achievements.PostgresSink

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	migrations.Migrate(connString)

	sink, err = achievements.NewPostgresSink(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	sink.Close()
	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func TestRecordCityNamed(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstCity", func(t *testing.T) {
		total, err := sink.RecordCityNamed(ctx, "namer", "москва")
		assert.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("CounterAccumulates", func(t *testing.T) {
		total, err := sink.RecordCityNamed(ctx, "namer", "тверь")
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		total, err = sink.RecordCityNamed(ctx, "namer", "москва")
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("FavoritesRankedByFrequency", func(t *testing.T) {
		stats, err := sink.Stats(ctx, "namer")
		require.NoError(t, err)

		require.Len(t, stats.FavoriteCities, 2)
		assert.Equal(t, internal.CityCount{City: "москва", Count: 2}, stats.FavoriteCities[0])
		assert.Equal(t, internal.CityCount{City: "тверь", Count: 1}, stats.FavoriteCities[1])
	})

	t.Run("FavoritesCappedAtThree", func(t *testing.T) {
		for _, city := range []string{"омск", "курск", "тула", "пермь"} {
			_, err := sink.RecordCityNamed(ctx, "collector", city)
			require.NoError(t, err)
		}

		stats, err := sink.Stats(ctx, "collector")
		require.NoError(t, err)
		assert.Len(t, stats.FavoriteCities, 3)
	})
}

func TestRecordGameFinished(t *testing.T) {
	ctx := context.Background()

	t.Run("Win", func(t *testing.T) {
		wins, err := sink.RecordGameFinished(ctx, "gamer", true, 15)
		assert.NoError(t, err)
		assert.Equal(t, 1, wins)
	})

	t.Run("StreakGrowsOnWin", func(t *testing.T) {
		wins, err := sink.RecordGameFinished(ctx, "gamer", true, 8)
		require.NoError(t, err)
		assert.Equal(t, 2, wins)

		stats, err := sink.Stats(ctx, "gamer")
		require.NoError(t, err)
		assert.Equal(t, 2, stats.ConsecutiveWins)
		assert.Equal(t, 2, stats.TotalGames)
	})

	t.Run("LossResetsStreakKeepsWins", func(t *testing.T) {
		wins, err := sink.RecordGameFinished(ctx, "gamer", false, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, wins)

		stats, err := sink.Stats(ctx, "gamer")
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Wins)
		assert.Equal(t, 0, stats.ConsecutiveWins)
		assert.Equal(t, 3, stats.TotalGames)
	})

	t.Run("BestScoreIsHighWater", func(t *testing.T) {
		stats, err := sink.Stats(ctx, "gamer")
		require.NoError(t, err)
		assert.Equal(t, 15, stats.BestScore)
	})
}

func TestStatsUnknownPlayer(t *testing.T) {
	_, err := sink.Stats(context.Background(), "ghost")
	assert.ErrorIs(t, err, internal.ErrNoStats)
}
