package memory

import (
	"context"
	"sync"
	"time"

	"movielib/proj/internal/storage"

	"github.com/google/uuid"
)

type session struct {
	userID    int64
	expiresAt time.Time
}

type SessionModel struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionModel() *SessionModel {
	return &SessionModel{sessions: make(map[string]session), now: time.Now}
}

func (m *SessionModel) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = session{userID: userID, expiresAt: m.now().Add(ttl)}
	return id, nil
}

// Get returns storage.ErrNotFound for unknown and expired sessions. Expired
// entries are dropped lazily.
func (m *SessionModel) Get(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return 0, storage.ErrNotFound
	}
	if !m.now().Before(s.expiresAt) {
		delete(m.sessions, id)
		return 0, storage.ErrNotFound
	}
	return s.userID, nil
}

func (m *SessionModel) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
