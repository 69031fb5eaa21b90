package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leaguehq/draftsim/internal/draft"
	"github.com/leaguehq/draftsim/internal/models"
)

// DraftSession pairs one simulator with the behavior models driving its
// autopicks. The simulator is single-writer; the registry mutex protects
// only registry membership, never concurrent pick application.
type DraftSession struct {
	ID        uuid.UUID
	League    string
	Sim       *draft.Simulator
	Models    map[string]*models.BehaviorModel
	CreatedAt time.Time
}

// SessionRegistry tracks active draft sessions in memory. Concurrent
// simulations get independent simulators by construction.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*DraftSession
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*DraftSession),
	}
}

// Create registers a new session around an initialized simulator.
func (r *SessionRegistry) Create(league string, sim *draft.Simulator, behaviorModels map[string]*models.BehaviorModel) *DraftSession {
	session := &DraftSession{
		ID:        uuid.New(),
		League:    league,
		Sim:       sim,
		Models:    behaviorModels,
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

// Get returns a session by id.
func (r *SessionRegistry) Get(id uuid.UUID) (*DraftSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("draft session %s not found", id)
	}
	return session, nil
}

// Delete removes a session.
func (r *SessionRegistry) Delete(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// List returns all session ids, newest first not guaranteed.
func (r *SessionRegistry) List() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
