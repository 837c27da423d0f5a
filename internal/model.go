package internal

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultJoinDuration       = 30 * time.Second
	DefaultProgressInterval   = 3 * time.Second
	DefaultInactivityDuration = 5 * time.Minute
	DefaultWinThreshold       = 15
)

type GamePhase string

const (
	PhaseJoining GamePhase = "joining"
	PhaseActive  GamePhase = "active"
	PhaseEnded   GamePhase = "ended"
)

// EndReason says why a session was torn down.
type EndReason string

const (
	EndReasonWin        EndReason = "win"
	EndReasonInactivity EndReason = "inactivity"
	EndReasonNoJoiners  EndReason = "no_joiners"
	EndReasonAllLeft    EndReason = "all_left"
)

type Player struct {
	Id       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`

	// ScoredAt is when the player reached their current score.
	// Tie-break at game end: equal scores rank by earliest ScoredAt.
	ScoredAt time.Time `json:"-"`
}

// SessionTimer is one owned, cancellable scheduled task. The goroutine behind
// it keeps its own ctx and compares it against the session's stored timer
// before acting, so a fired-but-stale timer can never touch a successor.
type SessionTimer struct {
	StartTime time.Time
	Duration  time.Duration
	IsActive  bool
	Context   context.Context
	Cancel    context.CancelFunc
}

func (t *SessionTimer) Remaining() time.Duration {
	if t == nil || !t.IsActive {
		return 0
	}
	return max(t.Duration-time.Since(t.StartTime), 0)
}

// GameSession is the per-room state machine record. A room has at most one
// live session; the object exists only for the Joining and Active phases.
type GameSession struct {
	RoomId string
	Phase  GamePhase

	Players     map[string]*Player
	PlayerOrder []string

	UsedCities map[string]struct{}
	LastCity   string

	// Timers, at most one live per kind.
	JoinTimer       *SessionTimer
	ProgressTimer   *SessionTimer
	InactivityTimer *SessionTimer

	// Handle of the join-progress message edited in place.
	ProgressRef MessageRef
	HasProgress bool

	Mu sync.RWMutex `json:"-"`
}

// RankedPlayer is one leaderboard row.
type RankedPlayer struct {
	Position int    `json:"position"`
	PlayerId string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// MessageRef identifies a sent chat message so it can be edited later.
type MessageRef struct {
	RoomId    string `json:"room_id"`
	MessageId int64  `json:"message_id"`
}

// ErrRateLimited is returned by a Notifier when the chat platform is
// throttling edits. The transport layer retries; the game core never does.
var ErrRateLimited = errors.New("rate limited by chat platform")

// Notifier is the outgoing half of the chat transport. Notify is
// fire-and-forget: game-logic correctness never waits on delivery.
type Notifier interface {
	Notify(roomId, text string)
	NotifyWithRef(roomId, text string) (MessageRef, error)
	Edit(ref MessageRef, text string) error
}

// PlayerStats is the cross-session achievement record for one player.
type PlayerStats struct {
	PlayerId        string      `json:"player_id"`
	CitiesNamed     int         `json:"cities_named"`
	Wins            int         `json:"wins"`
	ConsecutiveWins int         `json:"consecutive_wins"`
	TotalGames      int         `json:"total_games"`
	BestScore       int         `json:"best_score"`
	FavoriteCities  []CityCount `json:"favorite_cities"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

var ErrNoStats = errors.New("no stats recorded for player")

// AchievementSink receives game events after state mutation. Failures are
// logged and swallowed by the caller; they never block or roll back a game.
type AchievementSink interface {
	// RecordCityNamed bumps the player's counters and returns the new
	// cities-named total (used for milestone announcements).
	RecordCityNamed(ctx context.Context, playerId, city string) (int, error)
	// RecordGameFinished closes out a game for one player and returns the
	// player's new win total.
	RecordGameFinished(ctx context.Context, playerId string, won bool, score int) (int, error)
	Stats(ctx context.Context, playerId string) (PlayerStats, error)
}
