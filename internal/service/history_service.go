package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"notesync-web/internal/domain"
	"notesync-web/internal/metrics"
	"notesync-web/pkg/hash"

	"github.com/go-playground/validator/v10"
)

// RefreshNotifier reaches a user's open pages: it tells them a note
// changed, or shows them a toast.
type RefreshNotifier interface {
	NotifyNoteRefresh(userUID int64, key domain.HistoryKey, version int64)
	NotifyToast(userUID int64, kind, text string)
}

// HistoryService keeps one history session per note and browser session,
// so two tabs of the same sign-in can each show a different note.
type HistoryService struct {
	api            HistoryAPI
	notifier       RefreshNotifier
	pageSize       int
	restoreTimeout time.Duration
	validate       *validator.Validate

	mu       sync.Mutex
	sessions map[string]map[string]*HistorySession
}

func NewHistoryService(api HistoryAPI, notifier RefreshNotifier, pageSize int, restoreTimeout time.Duration) *HistoryService {
	return &HistoryService{
		api:            api,
		notifier:       notifier,
		pageSize:       pageSize,
		restoreTimeout: restoreTimeout,
		validate:       domain.NewValidator(),
		sessions:       make(map[string]map[string]*HistorySession),
	}
}

// noteSlot identifies a note independently of how its path was spelled.
func noteSlot(key domain.HistoryKey) string {
	slot := key.Vault + "|" + key.PathHash
	if key.IsRecycle {
		slot += "|recycle"
	}
	return slot
}

func (s *HistoryService) normalize(key domain.HistoryKey) (domain.HistoryKey, error) {
	if key.PathHash == "" && key.Path != "" {
		key.PathHash = hash.PathHash(key.Path)
	}
	if err := s.validate.Struct(key); err != nil {
		return key, &ValidationError{Err: err}
	}
	return key, nil
}

// Open replaces the session the browser session already had for the same
// note. The returned session is usable even when the first page failed to
// load.
func (s *HistoryService) Open(ctx context.Context, state *domain.AppState, key domain.HistoryKey) (*HistorySession, error) {
	key, err := s.normalize(key)
	if err != nil {
		return nil, err
	}

	sessionID := state.SessionID
	userUID := state.UserUID
	slot := noteSlot(key)

	var session *HistorySession
	session = NewHistorySession(s.api, state.Token, key, HistoryOptions{
		PageSize:       s.pageSize,
		RestoreTimeout: s.restoreTimeout,
		ChangedOnly:    state.Preferences.HistoryChangedOnly,
		OnRestored: func(entry domain.HistoryEntry) {
			s.evict(sessionID, slot, session)
			log.Printf("[History] restored %s version %d (history %d) for user %d", key.Path, entry.Version, entry.ID, userUID)
			if s.notifier != nil {
				s.notifier.NotifyNoteRefresh(userUID, key, entry.Version)
			}
		},
		OnRestoreSlow: func(entry domain.HistoryEntry) {
			log.Printf("[History] restore of %s version %d (history %d) still pending for user %d", key.Path, entry.Version, entry.ID, userUID)
			if s.notifier != nil {
				s.notifier.NotifyToast(userUID, NoticeInfo, fmt.Sprintf("%s: %s", key.Path, restoreSlowMessage))
			}
		},
	})

	s.mu.Lock()
	notes, ok := s.sessions[sessionID]
	if !ok {
		notes = make(map[string]*HistorySession)
		s.sessions[sessionID] = notes
	}
	previous := notes[slot]
	notes[slot] = session
	s.mu.Unlock()

	if previous != nil {
		previous.Close()
	} else {
		metrics.HistorySessionsOpen.Inc()
	}

	if err := session.Open(ctx); err != nil && err != ErrStaleResponse {
		log.Printf("[History] list %s failed: %v", key, err)
		return session, err
	}
	return session, nil
}

// Get returns the open session of the note named by key.
func (s *HistoryService) Get(sessionID string, key domain.HistoryKey) (*HistorySession, error) {
	key, err := s.normalize(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID][noteSlot(key)]
	if !ok {
		return nil, ErrSessionClosed
	}
	return session, nil
}

func (s *HistoryService) Close(sessionID string, key domain.HistoryKey) {
	key, err := s.normalize(key)
	if err != nil {
		return
	}
	slot := noteSlot(key)

	s.mu.Lock()
	session, ok := s.sessions[sessionID][slot]
	if ok {
		s.removeLocked(sessionID, slot)
	}
	s.mu.Unlock()

	if ok {
		metrics.HistorySessionsOpen.Dec()
		session.Close()
	}
}

// CloseAll ends every history session of a browser session.
func (s *HistoryService) CloseAll(sessionID string) {
	s.mu.Lock()
	notes := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	for _, session := range notes {
		metrics.HistorySessionsOpen.Dec()
		session.Close()
	}
}

// evict drops session only if it is still the one registered, so a late
// restore cannot remove a newer session.
func (s *HistoryService) evict(sessionID, slot string, session *HistorySession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.sessions[sessionID][slot]; ok && current == session {
		s.removeLocked(sessionID, slot)
		metrics.HistorySessionsOpen.Dec()
	}
}

func (s *HistoryService) removeLocked(sessionID, slot string) {
	notes := s.sessions[sessionID]
	delete(notes, slot)
	if len(notes) == 0 {
		delete(s.sessions, sessionID)
	}
}

func (s *HistoryService) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, notes := range s.sessions {
		n += len(notes)
	}
	return n
}

// HistoryKeyFor builds the history key of a note, filling in the path hash
// when only the path is known.
func HistoryKeyFor(ref domain.NoteRef, isRecycle bool) domain.HistoryKey {
	key := domain.HistoryKey{Vault: ref.Vault, Path: ref.Path, PathHash: ref.PathHash, IsRecycle: isRecycle}
	if key.PathHash == "" && key.Path != "" {
		key.PathHash = hash.PathHash(key.Path)
	}
	return key
}
