package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/librarian/internal/domain"
)

// Memory is an in-process session store for single-shot CLI runs and tests,
// where a Redis round-trip would be pointless.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]domain.ChatSession
	turns    map[string][]domain.ChatTurn
	now      func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]domain.ChatSession),
		turns:    make(map[string][]domain.ChatTurn),
		now:      time.Now,
	}
}

// Create starts a new session with a generated id.
func (m *Memory) Create(_ context.Context, title string) (domain.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := domain.ChatSession{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: m.now().UTC(),
	}
	m.sessions[session.ID] = session
	return session, nil
}

// Get loads one session by id.
func (m *Memory) Get(_ context.Context, id string) (domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return domain.ChatSession{}, fmt.Errorf("chat %s: %w", id, domain.ErrChatNotFound)
	}
	return session, nil
}

// List returns all sessions, newest first.
func (m *Memory) List(_ context.Context) ([]domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]domain.ChatSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// AppendTurn adds a turn to the session's ordered history.
func (m *Memory) AppendTurn(_ context.Context, chatID string, role domain.Role, content string, metadata map[string]any) (domain.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[chatID]; !ok {
		return domain.ChatTurn{}, fmt.Errorf("chat %s: %w", chatID, domain.ErrChatNotFound)
	}

	turn := domain.ChatTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: m.now().UTC(),
	}
	m.turns[chatID] = append(m.turns[chatID], turn)
	return turn, nil
}

// ListTurns returns the session's turns in insertion order.
func (m *Memory) ListTurns(_ context.Context, chatID string) ([]domain.ChatTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[chatID]; !ok {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrChatNotFound)
	}

	out := make([]domain.ChatTurn, len(m.turns[chatID]))
	copy(out, m.turns[chatID])
	return out, nil
}
