package chat

import "sync"

// Registry maps user identifiers to their sessions, creating them lazily.
// Sessions live for the process lifetime; there is no eviction.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	backend      Backend
	speech       Synthesizer
	defaultLabel string
}

// NewRegistry bootstraps the in-memory session registry. speech may be nil
// when no synthesis endpoint is configured.
func NewRegistry(backend Backend, speech Synthesizer, defaultLabel string) *Registry {
	if defaultLabel == "" {
		defaultLabel = "Bot"
	}
	return &Registry{
		sessions:     make(map[string]*Session),
		backend:      backend,
		speech:       speech,
		defaultLabel: defaultLabel,
	}
}

// GetOrCreate returns the session for userID, constructing it with an empty
// log and the default sender label on first reference. Idempotent: repeated
// calls return the same instance.
func (r *Registry) GetOrCreate(userID string) *Session {
	r.mu.RLock()
	session, ok := r.sessions[userID]
	r.mu.RUnlock()
	if ok {
		return session
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[userID]; ok {
		return session
	}

	session = newSession(userID, r.backend, r.speech, r.defaultLabel)
	r.sessions[userID] = session
	return session
}

// Len reports how many sessions exist.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
