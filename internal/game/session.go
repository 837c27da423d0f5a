package game

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/scythe504/goroda-bot/internal"
	"github.com/scythe504/goroda-bot/internal/achievements"
)

// =============================================================================
// GAME ENGINE - SESSION STATE MACHINE
// =============================================================================

// Config tunes one engine. Zero values fall back to the defaults.
type Config struct {
	JoinDuration       time.Duration
	ProgressInterval   time.Duration
	InactivityDuration time.Duration
	WinThreshold       int
}

func (c Config) withDefaults() Config {
	if c.JoinDuration <= 0 {
		c.JoinDuration = internal.DefaultJoinDuration
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = internal.DefaultProgressInterval
	}
	if c.InactivityDuration <= 0 {
		c.InactivityDuration = internal.DefaultInactivityDuration
	}
	if c.WinThreshold <= 0 {
		c.WinThreshold = internal.DefaultWinThreshold
	}
	return c
}

// Engine owns the room registry and drives every session state machine.
// Each public operation corresponds to one external event (join, leave,
// message); timer callbacks re-enter through the deadline handlers in
// timer.go. All session mutation happens under the session's own lock.
type Engine struct {
	store    *SessionStore
	catalog  CityCatalog
	notifier internal.Notifier
	sink     internal.AchievementSink
	cfg      Config
}

func NewEngine(catalog CityCatalog, notifier internal.Notifier, sink internal.AchievementSink, cfg Config) *Engine {
	return &Engine{
		store:    NewSessionStore(),
		catalog:  catalog,
		notifier: notifier,
		sink:     sink,
		cfg:      cfg.withDefaults(),
	}
}

// Store exposes the session registry (read-side consumers and tests).
func (e *Engine) Store() *SessionStore {
	return e.store
}

// Join handles a join request. The first join for an idle room creates the
// session and opens the join window; later joins during the window add
// players. Join requests after the game started are refused.
func (e *Engine) Join(roomId, playerId, name string) {
	session, created := e.store.GetOrCreate(roomId)

	session.Mu.Lock()
	if session.Phase != internal.PhaseJoining {
		session.Mu.Unlock()
		e.notifier.Notify(roomId, "Игра уже началась. Дождитесь следующей игры.")
		return
	}

	_, alreadyIn := session.Players[playerId]
	if !alreadyIn {
		session.Players[playerId] = &internal.Player{
			Id:       playerId,
			Name:     name,
			JoinedAt: time.Now(),
		}
		session.PlayerOrder = append(session.PlayerOrder, playerId)
	}
	playerCount := len(session.Players)
	session.Mu.Unlock()

	if created {
		log.Printf("[Join] room=%s: join window opened by %s", roomId, playerId)

		announcement := "Игра в \"Города\" начинается! Используйте /join, чтобы присоединиться"
		ref, err := e.notifier.NotifyWithRef(roomId, announcement)
		session.Mu.Lock()
		if err != nil {
			log.Printf("[Join] room=%s: progress message not available: %v", roomId, err)
		} else {
			session.ProgressRef = ref
			session.HasProgress = true
		}
		session.Mu.Unlock()

		e.startJoinTimer(session)
		e.startProgressTicker(session)
	}

	if alreadyIn {
		// Original bot ignores repeat joins silently.
		return
	}

	log.Printf("[Join] room=%s: player %s (%s) joined, roster=%d", roomId, playerId, name, playerCount)
	e.notifier.Notify(roomId, fmt.Sprintf("%s присоединился к игре!", name))
}

// Leave removes a player during the join window. Once the game is active the
// roster is frozen and leaving is refused.
func (e *Engine) Leave(roomId, playerId string) {
	session, ok := e.store.Get(roomId)
	if !ok {
		e.notifier.Notify(roomId, "Нет активной фазы вступления в игру, из которой можно выйти.")
		return
	}

	session.Mu.Lock()
	if session.Phase != internal.PhaseJoining {
		session.Mu.Unlock()
		e.notifier.Notify(roomId, "Нет активной фазы вступления в игру, из которой можно выйти.")
		return
	}

	player, exists := session.Players[playerId]
	if !exists {
		session.Mu.Unlock()
		e.notifier.Notify(roomId, "Вы не присоединились к игре.")
		return
	}

	delete(session.Players, playerId)
	session.PlayerOrder = slices.DeleteFunc(session.PlayerOrder, func(id string) bool {
		return id == playerId
	})
	name := player.Name
	empty := len(session.Players) == 0
	session.Mu.Unlock()

	log.Printf("[Leave] room=%s: player %s left, empty=%v", roomId, playerId, empty)
	e.notifier.Notify(roomId, fmt.Sprintf("%s вышел из игры.", name))

	if empty {
		e.destroySession(session, internal.EndReasonAllLeft)
	}
}

// HandleCity processes a text message as a candidate move. Text is ignored
// outside the Active phase and from players not in the roster.
func (e *Engine) HandleCity(roomId, playerId, rawCity string) {
	session, ok := e.store.Get(roomId)
	if !ok {
		return
	}

	session.Mu.Lock()
	if session.Phase != internal.PhaseActive {
		session.Mu.Unlock()
		return
	}
	player, inRoster := session.Players[playerId]
	if !inRoster {
		session.Mu.Unlock()
		return
	}

	verdict := Validate(e.catalog, session, rawCity)
	if verdict.Kind != VerdictAccepted {
		session.Mu.Unlock()
		e.notifyRejection(roomId, verdict)
		return
	}

	// Apply the accepted move.
	session.UsedCities[verdict.City] = struct{}{}
	session.LastCity = verdict.City
	player.Score++
	player.ScoredAt = time.Now()

	name := player.Name
	score := player.Score
	won := score >= e.cfg.WinThreshold
	nextLetter := SignificantLetter(verdict.City)
	session.Mu.Unlock()

	log.Printf("[HandleCity] room=%s: %s played %q, score=%d", roomId, playerId, verdict.City, score)

	go e.recordCityNamed(roomId, playerId, name, verdict.City)

	// The winner is the mover whose score just crossed the threshold.
	if won {
		e.endGame(session, internal.EndReasonWin)
		return
	}

	e.notifier.Notify(roomId, fmt.Sprintf(
		"Отлично, %s +1 очко.\nТекущий счет: %d! Следующий город на букву \"%s\".",
		name, score, upperLetter(nextLetter)))
	e.startInactivityTimer(session)
}

func (e *Engine) notifyRejection(roomId string, verdict Verdict) {
	switch verdict.Kind {
	case VerdictEmptyInput:
		// Malformed input, nothing to answer.
	case VerdictUnknownCity:
		e.notifier.Notify(roomId, "Такого города не существует. Попробуйте другой")
	case VerdictAlreadyUsed:
		e.notifier.Notify(roomId, "Этот город уже был назван. Попробуйте другой")
	case VerdictWrongLetter:
		e.notifier.Notify(roomId, fmt.Sprintf(
			"Город должен начинаться на букву \"%s\"", upperLetter(verdict.ExpectedLetter)))
	}
}

// endGame closes an Active session: leaderboard, achievements, teardown.
// Safe to race with timer callbacks; the first caller wins.
func (e *Engine) endGame(session *internal.GameSession, reason internal.EndReason) {
	session.Mu.Lock()
	if session.Phase == internal.PhaseEnded {
		session.Mu.Unlock()
		return
	}
	session.Phase = internal.PhaseEnded
	cancelSessionTimers(session)
	ranked := Rank(session)
	roomId := session.RoomId
	session.Mu.Unlock()

	e.store.Remove(session)

	header := "Игра окончена!"
	if reason == internal.EndReasonInactivity {
		header = "Игра завершена из-за отсутствия активности."
	}
	log.Printf("[endGame] room=%s: reason=%s players=%d", roomId, reason, len(ranked))
	e.notifier.Notify(roomId, header+"\nРезультаты:\n"+FormatLeaderboard(ranked))

	winner, hasWinner := Winner(ranked)
	for _, row := range ranked {
		won := hasWinner && row.PlayerId == winner.PlayerId && row.Score > 0
		go e.recordGameFinished(roomId, row, won)
	}
}

// destroySession tears down a session that never reached a result (empty
// roster, nobody joined).
func (e *Engine) destroySession(session *internal.GameSession, reason internal.EndReason) {
	session.Mu.Lock()
	if session.Phase == internal.PhaseEnded {
		session.Mu.Unlock()
		return
	}
	session.Phase = internal.PhaseEnded
	cancelSessionTimers(session)
	roomId := session.RoomId
	session.Mu.Unlock()

	e.store.Remove(session)

	log.Printf("[destroySession] room=%s: reason=%s", roomId, reason)
	switch reason {
	case internal.EndReasonNoJoiners:
		e.notifier.Notify(roomId, "Никто не присоединился. Игра отменена")
	case internal.EndReasonAllLeft:
		e.notifier.Notify(roomId, "Все игроки покинули игру. Игра отменена.")
	}
}

// recordCityNamed reports an accepted move to the achievement sink. Sink
// failures are logged and swallowed, never touching game state.
func (e *Engine) recordCityNamed(roomId, playerId, name, city string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	total, err := e.sink.RecordCityNamed(ctx, playerId, city)
	if err != nil {
		log.Printf("[recordCityNamed] room=%s player=%s: sink error: %v", roomId, playerId, err)
		return
	}
	if milestone := achievements.CityMilestone(total); milestone != nil {
		e.notifier.Notify(roomId, fmt.Sprintf("🎉 %s получает достижение \"%s\"!", name, milestone.Name))
	}
}

func (e *Engine) recordGameFinished(roomId string, row internal.RankedPlayer, won bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wins, err := e.sink.RecordGameFinished(ctx, row.PlayerId, won, row.Score)
	if err != nil {
		log.Printf("[recordGameFinished] room=%s player=%s: sink error: %v", roomId, row.PlayerId, err)
		return
	}
	if !won {
		return
	}
	if milestone := achievements.WinMilestone(wins); milestone != nil {
		e.notifier.Notify(roomId, fmt.Sprintf("🎉 %s получает достижение \"%s\"!", row.Name, milestone.Name))
	} else if wins > 0 && wins%10 == 0 {
		e.notifier.Notify(roomId, fmt.Sprintf("🎉 %s достиг %d побед!", row.Name, wins))
	}
}

func upperLetter(letter rune) string {
	return strings.ToUpper(string(letter))
}
