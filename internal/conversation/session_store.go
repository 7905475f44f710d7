package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/civicpoint/taxassist-ai-platform/pkg/logging"
)

// SnapshotStore persists flat session snapshots so an active conversation
// survives a process restart. Implementations must tolerate concurrent calls.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, sessionID string) (Snapshot, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// Result is what one processed message yields back to the caller.
type Result struct {
	SessionID     string   `json:"session_id"`
	Response      string   `json:"response"`
	Stage         Stage    `json:"stage"`
	PreviousStage Stage    `json:"previous_stage"`
	Concern       Concern  `json:"concern,omitempty"`
	Language      Language `json:"language"`
}

// sessionEntry holds one live session. Each entry carries its own mutex so
// messages for the same session are strictly serialized while different
// sessions proceed in parallel.
type sessionEntry struct {
	mu  sync.Mutex
	ctx *Context
}

// SessionStore owns all live sessions and routes messages through the engine.
// The zero value is not usable; construct with NewSessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	engine    *Engine
	detector  LanguageDetector
	snapshots SnapshotStore
	logger    *logging.Logger

	idleTTL time.Duration
	nowFn   func() time.Time
}

// NewSessionStore creates a session store. snapshots may be nil, in which
// case sessions live only in memory. idleTTL <= 0 disables sweeping.
func NewSessionStore(engine *Engine, detector LanguageDetector, snapshots SnapshotStore, logger *logging.Logger, idleTTL time.Duration) *SessionStore {
	if logger == nil {
		logger = logging.Default()
	}
	if detector == nil {
		detector = NewKeywordLanguageDetector()
	}
	return &SessionStore{
		sessions:  make(map[string]*sessionEntry),
		engine:    engine,
		detector:  detector,
		snapshots: snapshots,
		logger:    logger,
		idleTTL:   idleTTL,
		nowFn:     time.Now,
	}
}

// Start begins a fresh session and processes the first message. Starting an
// existing session ID discards the previous state for that ID.
func (s *SessionStore) Start(ctx context.Context, sessionID, customerID, firstMessage string) Result {
	now := s.nowFn()
	entry := &sessionEntry{ctx: NewContext(sessionID, customerID, now)}

	s.mu.Lock()
	s.sessions[sessionID] = entry
	s.mu.Unlock()

	return s.processEntry(ctx, entry, firstMessage)
}

// Process handles one inbound message. A session ID with no live entry is
// restored from its snapshot when one exists, otherwise started implicitly.
func (s *SessionStore) Process(ctx context.Context, sessionID, message string) Result {
	entry := s.lookupOrRestore(ctx, sessionID)
	return s.processEntry(ctx, entry, message)
}

func (s *SessionStore) lookupOrRestore(ctx context.Context, sessionID string) *sessionEntry {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	now := s.nowFn()
	restored := NewContext(sessionID, "", now)
	if s.snapshots != nil {
		if snap, found, err := s.snapshots.Load(ctx, sessionID); err != nil {
			s.logger.Warn("session snapshot load failed", "session_id", sessionID, "error", err)
		} else if found {
			restored = RestoreContext(snap, now)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock; a concurrent Process may have won.
	if entry, ok := s.sessions[sessionID]; ok {
		return entry
	}
	entry = &sessionEntry{ctx: restored}
	s.sessions[sessionID] = entry
	return entry
}

func (s *SessionStore) processEntry(ctx context.Context, entry *sessionEntry, message string) Result {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	c := entry.ctx
	prev := c.Stage

	// Sticky language: once a session leaves the default language it stays
	// there; a neutral message must not flip it back.
	if detected := s.detector.Detect(message); detected != DefaultLanguage {
		c.Language = detected
	}

	response := s.engine.Process(c, message, s.nowFn())
	s.persistSnapshot(ctx, c)

	return Result{
		SessionID:     c.SessionID,
		Response:      response,
		Stage:         c.Stage,
		PreviousStage: prev,
		Concern:       c.Concern,
		Language:      c.Language,
	}
}

func (s *SessionStore) persistSnapshot(ctx context.Context, c *Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, c.Snapshot()); err != nil {
		s.logger.Warn("session snapshot save failed", "session_id", c.SessionID, "error", err)
	}
}

// GetContext returns a point-in-time snapshot of a live session.
func (s *SessionStore) GetContext(sessionID string) (Snapshot, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.ctx.Snapshot(), true
}

// End removes a session and its snapshot. Ending an unknown session is a
// no-op.
func (s *SessionStore) End(ctx context.Context, sessionID string) {
	s.mu.Lock()
	_, existed := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if existed && s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("session snapshot delete failed", "session_id", sessionID, "error", err)
		}
	}
}

// Escalate hands a session over to a human specialist. The session stays
// live so the specialist can read its context; it reports whether the
// session existed.
func (s *SessionStore) Escalate(ctx context.Context, sessionID string) (Result, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return Result{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	c := entry.ctx
	prev := c.Stage
	c.Stage = StageEscalation
	c.LastActiveAt = s.nowFn()
	response := s.engine.templates.Render(ScenarioEscalation, c.Language, "")
	s.persistSnapshot(ctx, c)

	return Result{
		SessionID:     c.SessionID,
		Response:      response,
		Stage:         c.Stage,
		PreviousStage: prev,
		Concern:       c.Concern,
		Language:      c.Language,
	}, true
}

// ActiveCount reports the number of live sessions.
func (s *SessionStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ActiveSnapshots lists snapshots of every live session, for the admin
// surface. Order is unspecified.
func (s *SessionStore) ActiveSnapshots() []Snapshot {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, entry := range s.sessions {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		snaps = append(snaps, entry.ctx.Snapshot())
		entry.mu.Unlock()
	}
	return snaps
}

// Sweep evicts sessions idle past the TTL and returns how many were
// dropped. Evicted sessions keep their snapshot, so a late message restores
// them instead of restarting the conversation.
func (s *SessionStore) Sweep(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.ctx.LastActiveAt.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("idle sessions evicted", "count", evicted)
	}
	return evicted
}
