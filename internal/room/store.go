package room

import "sync"

// Store is the in-memory registry of room sessions, keyed by the
// caller-supplied room id. It owns all sessions: rooms come into existence on
// first reference and are removed once their last participant is gone. The
// store mutex only guards registry membership; game state is guarded by each
// session's own mutex.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Session
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, creating a fresh playing session on
// first reference. Referencing an unknown room is not an error.
func (that *Store) GetOrCreate(id string) *Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	if session, ok := that.rooms[id]; ok {
		return session
	}

	session := NewSession(id)
	that.rooms[id] = session

	return session
}

// Get returns the session for id if it exists.
func (that *Store) Get(id string) (*Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.rooms[id]

	return session, ok
}

// RemoveIfEmpty destroys the room once its participant list is empty. The
// session is marked closed under the registry lock, so a concurrent join
// observes the closure and retries against a brand-new session.
func (that *Store) RemoveIfEmpty(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.rooms[id]
	if !ok {
		return false
	}

	if !session.closeIfEmpty() {
		return false
	}

	delete(that.rooms, id)

	return true
}

// ForEachWithParticipant calls fn for every session holding connID. Used by
// disconnect handling, which does not know in advance which rooms a
// connection joined. fn runs outside the registry lock.
func (that *Store) ForEachWithParticipant(connID string, fn func(*Session)) {
	that.mu.RLock()
	sessions := make([]*Session, 0, len(that.rooms))
	for _, session := range that.rooms {
		sessions = append(sessions, session)
	}
	that.mu.RUnlock()

	for _, session := range sessions {
		if session.HasParticipant(connID) {
			fn(session)
		}
	}
}

// Len reports the number of live rooms.
func (that *Store) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
