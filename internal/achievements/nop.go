package achievements

import (
	"context"

	"github.com/scythe504/goroda-bot/internal"
)

// NopSink discards every event. Used when no database is configured; the
// game runs fine without cross-session statistics.
type NopSink struct{}

func (NopSink) RecordCityNamed(_ context.Context, _, _ string) (int, error) {
	return 0, nil
}

func (NopSink) RecordGameFinished(_ context.Context, _ string, _ bool, _ int) (int, error) {
	return 0, nil
}

func (NopSink) Stats(_ context.Context, _ string) (internal.PlayerStats, error) {
	return internal.PlayerStats{}, internal.ErrNoStats
}
