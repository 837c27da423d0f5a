package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/scythe504/goroda-bot/internal"
)

// =============================================================================
// LEADERBOARD
// =============================================================================

// Rank compiles the final leaderboard from a finished session. Score
// descending; equal scores rank by who reached the score first, then by join
// order. Position is the 1-based index in the sorted order.
//
// Caller must hold at least a read lock on the session.
func Rank(session *internal.GameSession) []internal.RankedPlayer {
	players := make([]*internal.Player, 0, len(session.PlayerOrder))
	for _, playerId := range session.PlayerOrder {
		if player := session.Players[playerId]; player != nil {
			players = append(players, player)
		}
	}

	// Input follows join order, so the stable sort keeps earlier joiners
	// ahead when both score and ScoredAt tie.
	slices.SortStableFunc(players, func(a, b *internal.Player) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.ScoredAt.Compare(b.ScoredAt)
	})

	ranked := make([]internal.RankedPlayer, 0, len(players))
	for idx, player := range players {
		ranked = append(ranked, internal.RankedPlayer{
			Position: idx + 1,
			PlayerId: player.Id,
			Name:     player.Name,
			Score:    player.Score,
		})
	}
	return ranked
}

// Winner returns the top leaderboard row, if there is one.
func Winner(ranked []internal.RankedPlayer) (internal.RankedPlayer, bool) {
	if len(ranked) == 0 {
		return internal.RankedPlayer{}, false
	}
	return ranked[0], true
}

// FormatLeaderboard renders ranked results the way the bot announces them:
//
//	1. Аня: 3 очка
//	2. Борис: 1 очко
func FormatLeaderboard(ranked []internal.RankedPlayer) string {
	lines := make([]string, 0, len(ranked))
	for _, row := range ranked {
		lines = append(lines, fmt.Sprintf("%d. %s: %d %s",
			row.Position, row.Name, row.Score, PointsWord(row.Score)))
	}
	return strings.Join(lines, "\n")
}

// PointsWord picks the Russian plural form for очко: 1 очко, 2 очка, 5 очков,
// with the 11-14 exception (11 очков, 21 очко).
func PointsWord(points int) string {
	if points < 0 {
		points = -points
	}
	switch {
	case points%100 >= 11 && points%100 <= 14:
		return "очков"
	case points%10 == 1:
		return "очко"
	case points%10 >= 2 && points%10 <= 4:
		return "очка"
	default:
		return "очков"
	}
}
