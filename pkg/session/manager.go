package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"p9e.in/ncac/pkg/attachments"
	"p9e.in/ncac/pkg/form"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps a bounded number of sessions. The least recently used one
// is dropped when full, and a session idle for longer than the ttl expires.
type Manager struct {
	cache   *expirable.LRU[uuid.UUID, *Session]
	chain   form.Chain
	records Records
	files   attachments.Store
	now     func() time.Time
}

func NewManager(chain form.Chain, records Records, files attachments.Store, size int, ttl time.Duration) *Manager {
	onEvict := func(id uuid.UUID, _ *Session) {
		slog.Debug("session evicted", "session", id)
	}
	return &Manager{
		cache:   expirable.NewLRU[uuid.UUID, *Session](size, onEvict, ttl),
		chain:   chain,
		records: records,
		files:   files,
		now:     time.Now,
	}
}

// Create starts a session in its initial state.
func (m *Manager) Create() *Session {
	s := newSession(m.chain, m.records, m.files, m.now)
	m.cache.Add(s.ID, s)
	slog.Info("session started", "session", s.ID)
	return s
}

// Get returns a live session and restarts its idle timer.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.cache.Add(id, s)
	return s, nil
}

// Delete discards a session; it reports whether it existed.
func (m *Manager) Delete(id uuid.UUID) bool {
	return m.cache.Remove(id)
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	return m.cache.Len()
}
