package game

import (
	"log"
	"sync"

	"github.com/scythe504/goroda-bot/internal"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore maps a room id to at most one live GameSession. Sessions are
// created on demand by the first join and removed on game end; removal is
// identity-checked so a stale timer holding an old pointer can never evict a
// successor session created at the same room key.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*internal.GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*internal.GameSession),
	}
}

// Get returns the live session for a room, if any.
func (st *SessionStore) Get(roomId string) (*internal.GameSession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[roomId]
	return session, ok
}

// GetOrCreate returns the room's live session, creating a fresh Joining-phase
// session when the room is idle. The second result reports whether a new
// session was created.
func (st *SessionStore) GetOrCreate(roomId string) (*internal.GameSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if session, exists := st.sessions[roomId]; exists {
		return session, false
	}

	session := &internal.GameSession{
		RoomId:      roomId,
		Phase:       internal.PhaseJoining,
		Players:     make(map[string]*internal.Player),
		PlayerOrder: make([]string, 0),
		UsedCities:  make(map[string]struct{}),
	}
	st.sessions[roomId] = session

	log.Printf("[SessionStore] Created session for room %s", roomId)
	return session, true
}

// Live reports whether session is still the room's current session. Timer
// callbacks check this before mutating anything.
func (st *SessionStore) Live(session *internal.GameSession) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[session.RoomId] == session
}

// Remove deletes the session from the store if it is still the room's
// current one. Returns false for a stale pointer.
func (st *SessionStore) Remove(session *internal.GameSession) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.sessions[session.RoomId] != session {
		log.Printf("[SessionStore] Stale remove for room %s ignored", session.RoomId)
		return false
	}
	delete(st.sessions, session.RoomId)
	return true
}

// Count returns the number of live sessions.
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
