package repository

import (
	"context"
	"sync"
	"time"

	"notesync-web/internal/domain"
)

type memoryAppStateRepository struct {
	mu     sync.RWMutex
	states map[string]domain.AppState
}

func NewMemoryAppStateRepository() AppStateRepository {
	return &memoryAppStateRepository{
		states: make(map[string]domain.AppState),
	}
}

func (r *memoryAppStateRepository) Get(ctx context.Context, sessionID string) (*domain.AppState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[sessionID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return &state, nil
}

func (r *memoryAppStateRepository) Save(ctx context.Context, state *domain.AppState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state.SessionID] = *state
	return nil
}

func (r *memoryAppStateRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, sessionID)
	return nil
}

func (r *memoryAppStateRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, state := range r.states {
		if state.Expired(now) {
			delete(r.states, id)
			deleted++
		}
	}
	return deleted, nil
}
