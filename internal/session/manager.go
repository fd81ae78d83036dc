package session

import (
	"context"
	"errors"
	"sync"

	"github.com/lucasmonteiro/agendei/internal/booking"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

// Handle bundles the live controllers of one browser session.
type Handle struct {
	Form   *booking.Session
	Agenda *booking.Agenda
}

// Manager maps session ids to live controllers. Controllers are built on
// first use, hydrated from the store, and snapshotted back through
// Persist after every mutating request. Eviction rides on the store TTL;
// a live entry whose snapshot expired simply rebuilds from scratch.
type Manager struct {
	store  Store
	deps   booking.Deps
	logger *logging.Logger

	mu   sync.Mutex
	live map[string]*Handle
}

// NewManager creates a manager over the given store.
func NewManager(store Store, deps booking.Deps, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		store:  store,
		deps:   deps,
		logger: logger,
		live:   make(map[string]*Handle),
	}
}

// Acquire returns the live controllers for a session id, building and
// hydrating them on first sight. Store failures degrade to a fresh
// session rather than failing the request.
func (m *Manager) Acquire(ctx context.Context, id string) *Handle {
	m.mu.Lock()
	if h, ok := m.live[id]; ok {
		m.mu.Unlock()
		return h
	}
	h := &Handle{
		Form:   booking.NewSession(m.deps),
		Agenda: booking.NewAgenda(m.deps),
	}
	m.live[id] = h
	m.mu.Unlock()

	st, err := m.store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		m.logger.Warn("session load failed, starting fresh", "session_id", id, "error", err)
	default:
		h.Form.Restore(st)
		h.Agenda.Restore(st)
	}
	return h
}

// Persist snapshots a session back to the store. Best effort: a failed
// save only loses continuity across a restart, the live session is
// untouched.
func (m *Manager) Persist(ctx context.Context, id string) {
	m.mu.Lock()
	h, ok := m.live[id]
	m.mu.Unlock()
	if !ok {
		return
	}

	var st booking.State
	h.Form.Snapshot(&st)
	h.Agenda.Snapshot(&st)
	if err := m.store.Save(ctx, id, st); err != nil {
		m.logger.Warn("session save failed", "session_id", id, "error", err)
	}
}

// Drop forgets a session both live and stored.
func (m *Manager) Drop(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.Warn("session delete failed", "session_id", id, "error", err)
	}
}

// LiveCount returns the number of sessions currently held in memory.
func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}
