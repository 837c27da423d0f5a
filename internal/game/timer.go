package game

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/scythe504/goroda-bot/internal"
)

// =============================================================================
// SESSION TIMERS
// =============================================================================
//
// Three timer kinds per session: the single-shot join deadline, the recurring
// join-progress ticker, and the single-shot (rearmed) inactivity deadline.
// Starting a kind cancels the previous handle of that kind first, so at most
// one is live per kind. Every callback re-validates that the session is still
// the room's live one and that its own ctx is still the stored handle before
// touching state - a fired-but-stale timer must be a no-op.

// startJoinTimer arms the join-window deadline.
func (e *Engine) startJoinTimer(session *internal.GameSession) {
	session.Mu.Lock()
	cancelTimer(session.JoinTimer)
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.JoinDuration)
	session.JoinTimer = &internal.SessionTimer{
		StartTime: time.Now(),
		Duration:  e.cfg.JoinDuration,
		IsActive:  true,
		Context:   ctx,
		Cancel:    cancel,
	}
	roomId := session.RoomId
	session.Mu.Unlock()

	log.Printf("[startJoinTimer] room=%s: join window %v", roomId, e.cfg.JoinDuration)

	go func() {
		<-ctx.Done()
		if ctx.Err() != context.DeadlineExceeded {
			// Cancelled before expiry.
			return
		}
		e.onJoinDeadline(session, ctx)
	}()
}

// onJoinDeadline fires when the join window closes: a non-empty roster moves
// the session to Active, an empty one cancels the game.
func (e *Engine) onJoinDeadline(session *internal.GameSession, ctx context.Context) {
	if !e.store.Live(session) {
		log.Printf("[onJoinDeadline] room=%s: stale timer, session gone", session.RoomId)
		return
	}

	session.Mu.Lock()
	if session.JoinTimer == nil || session.JoinTimer.Context != ctx || session.Phase != internal.PhaseJoining {
		session.Mu.Unlock()
		return
	}
	session.JoinTimer.IsActive = false

	if len(session.Players) == 0 {
		session.Mu.Unlock()
		e.destroySession(session, internal.EndReasonNoJoiners)
		return
	}

	session.Phase = internal.PhaseActive
	cancelTimer(session.ProgressTimer)
	roomId := session.RoomId
	playerCount := len(session.Players)
	session.Mu.Unlock()

	log.Printf("[onJoinDeadline] room=%s: game started with %d players", roomId, playerCount)
	e.notifier.Notify(roomId, "Время для присоединения истекло. Игра начинается!")
	e.startInactivityTimer(session)
}

// startProgressTicker emits the countdown edits during the join phase.
func (e *Engine) startProgressTicker(session *internal.GameSession) {
	session.Mu.Lock()
	cancelTimer(session.ProgressTimer)
	ctx, cancel := context.WithCancel(context.Background())
	session.ProgressTimer = &internal.SessionTimer{
		StartTime: time.Now(),
		Duration:  e.cfg.JoinDuration,
		IsActive:  true,
		Context:   ctx,
		Cancel:    cancel,
	}
	session.Mu.Unlock()

	go func() {
		ticker := time.NewTicker(e.cfg.ProgressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !e.emitJoinProgress(session, ctx) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// emitJoinProgress edits the countdown message in place. Returns false when
// the ticker should stop (stale session, phase moved on, time ran out).
func (e *Engine) emitJoinProgress(session *internal.GameSession, ctx context.Context) bool {
	if !e.store.Live(session) {
		return false
	}

	session.Mu.RLock()
	if session.ProgressTimer == nil || session.ProgressTimer.Context != ctx || session.Phase != internal.PhaseJoining {
		session.Mu.RUnlock()
		return false
	}
	remaining := session.JoinTimer.Remaining()
	names := make([]string, 0, len(session.PlayerOrder))
	for _, playerId := range session.PlayerOrder {
		if player := session.Players[playerId]; player != nil {
			names = append(names, player.Name)
		}
	}
	hasRef := session.HasProgress
	ref := session.ProgressRef
	roomId := session.RoomId
	session.Mu.RUnlock()

	if remaining <= 0 {
		// Superseded by the join deadline firing.
		return false
	}
	if !hasRef {
		return true
	}

	text := fmt.Sprintf("Игроки: %s\nИгра начнется через %d сек.",
		strings.Join(names, ", "), int(math.Ceil(remaining.Seconds())))
	if err := e.notifier.Edit(ref, text); err != nil {
		log.Printf("[emitJoinProgress] room=%s: edit failed: %v", roomId, err)
	}
	return true
}

// startInactivityTimer arms (or rearms) the between-moves deadline. Called on
// entry to Active and after every accepted move.
func (e *Engine) startInactivityTimer(session *internal.GameSession) {
	session.Mu.Lock()
	if session.Phase != internal.PhaseActive {
		session.Mu.Unlock()
		return
	}
	cancelTimer(session.InactivityTimer)
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.InactivityDuration)
	session.InactivityTimer = &internal.SessionTimer{
		StartTime: time.Now(),
		Duration:  e.cfg.InactivityDuration,
		IsActive:  true,
		Context:   ctx,
		Cancel:    cancel,
	}
	session.Mu.Unlock()

	go func() {
		<-ctx.Done()
		if ctx.Err() != context.DeadlineExceeded {
			return
		}
		e.onInactivityDeadline(session, ctx)
	}()
}

func (e *Engine) onInactivityDeadline(session *internal.GameSession, ctx context.Context) {
	if !e.store.Live(session) {
		log.Printf("[onInactivityDeadline] room=%s: stale timer, session gone", session.RoomId)
		return
	}

	session.Mu.Lock()
	stale := session.InactivityTimer == nil ||
		session.InactivityTimer.Context != ctx ||
		session.Phase != internal.PhaseActive
	session.Mu.Unlock()
	if stale {
		return
	}

	log.Printf("[onInactivityDeadline] room=%s: no moves for %v, ending game", session.RoomId, e.cfg.InactivityDuration)
	e.endGame(session, internal.EndReasonInactivity)
}

// cancelTimer stops one timer handle. Caller holds the session lock.
func cancelTimer(t *internal.SessionTimer) {
	if t == nil || !t.IsActive {
		return
	}
	t.Cancel()
	t.IsActive = false
}

// cancelSessionTimers is the single teardown routine: after it returns the
// session owns zero live timer handles. Caller holds the session lock.
func cancelSessionTimers(session *internal.GameSession) {
	cancelTimer(session.JoinTimer)
	cancelTimer(session.ProgressTimer)
	cancelTimer(session.InactivityTimer)
}
