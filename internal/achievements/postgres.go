package achievements

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scythe504/goroda-bot/internal"
)

var ErrDatabase = errors.New("unexpected database error")

// PostgresSink persists per-player achievement records in Postgres. One row
// per player in achievements plus a (player, city) counter table feeding the
// favorite-cities stat.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(ctx context.Context, connString string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Close() {
	s.pool.Close()
}

func (s *PostgresSink) RecordCityNamed(ctx context.Context, playerId, city string) (int, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO achievements (player_id, cities_named)
		VALUES ($1, 1)
		ON CONFLICT (player_id)
		DO UPDATE SET cities_named = achievements.cities_named + 1
		RETURNING cities_named`, playerId)

	var total int
	if err := row.Scan(&total); err != nil {
		return 0, wrapDBError(err)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO favorite_cities (player_id, city, times_named)
		VALUES ($1, $2, 1)
		ON CONFLICT (player_id, city)
		DO UPDATE SET times_named = favorite_cities.times_named + 1`, playerId, city)
	if err != nil {
		return total, wrapDBError(err)
	}

	return total, nil
}

func (s *PostgresSink) RecordGameFinished(ctx context.Context, playerId string, won bool, score int) (int, error) {
	winInc := 0
	if won {
		winInc = 1
	}

	// A loss resets the consecutive-wins streak.
	row := s.pool.QueryRow(ctx, `
		INSERT INTO achievements (player_id, total_games, wins, consecutive_wins, best_score)
		VALUES ($1, 1, $2, $2, $3)
		ON CONFLICT (player_id)
		DO UPDATE SET
			total_games      = achievements.total_games + 1,
			wins             = achievements.wins + $2,
			consecutive_wins = CASE WHEN $2 = 1 THEN achievements.consecutive_wins + 1 ELSE 0 END,
			best_score       = GREATEST(achievements.best_score, $3)
		RETURNING wins`, playerId, winInc, score)

	var wins int
	if err := row.Scan(&wins); err != nil {
		return 0, wrapDBError(err)
	}
	return wins, nil
}

func (s *PostgresSink) Stats(ctx context.Context, playerId string) (internal.PlayerStats, error) {
	stats := internal.PlayerStats{PlayerId: playerId}

	row := s.pool.QueryRow(ctx, `
		SELECT cities_named, wins, consecutive_wins, total_games, best_score
		FROM achievements WHERE player_id = $1`, playerId)

	err := row.Scan(&stats.CitiesNamed, &stats.Wins, &stats.ConsecutiveWins,
		&stats.TotalGames, &stats.BestScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return internal.PlayerStats{}, internal.ErrNoStats
		}
		return internal.PlayerStats{}, wrapDBError(err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT city, times_named FROM favorite_cities
		WHERE player_id = $1
		ORDER BY times_named DESC, city ASC
		LIMIT 3`, playerId)
	if err != nil {
		return internal.PlayerStats{}, wrapDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var fav internal.CityCount
		if err := rows.Scan(&fav.City, &fav.Count); err != nil {
			return internal.PlayerStats{}, wrapDBError(err)
		}
		stats.FavoriteCities = append(stats.FavoriteCities, fav)
	}
	if err := rows.Err(); err != nil {
		return internal.PlayerStats{}, wrapDBError(err)
	}

	return stats, nil
}

func wrapDBError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDatabase, err)
}
