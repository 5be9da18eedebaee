// Package chat persists chat sessions and their turns.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/librarian/internal/db"
	"github.com/kailas-cloud/librarian/internal/domain"
)

// store is the consumer interface for chat persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo stores sessions as JSON strings, turns as JSON list entries, and the
// session index as a set. Turn order is insertion order (RPUSH/LRANGE).
type Repo struct {
	store  store
	prefix string
	now    func() time.Time
}

// New creates a chat repository. The prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix, now: time.Now}
}

func (r *Repo) sessionKey(id string) string { return r.prefix + "chat:" + id }
func (r *Repo) turnsKey(id string) string   { return r.prefix + "chat:" + id + ":turns" }
func (r *Repo) indexKey() string            { return r.prefix + "chats" }

// Create starts a new session with a generated id.
func (r *Repo) Create(ctx context.Context, title string) (domain.ChatSession, error) {
	session := domain.ChatSession{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: r.now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return domain.ChatSession{}, fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.Set(ctx, r.sessionKey(session.ID), data); err != nil {
		return domain.ChatSession{}, fmt.Errorf("store session: %w", err)
	}
	if err := r.store.SAdd(ctx, r.indexKey(), session.ID); err != nil {
		return domain.ChatSession{}, fmt.Errorf("index session: %w", err)
	}

	return session, nil
}

// Get loads one session by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.ChatSession, error) {
	data, err := r.store.Get(ctx, r.sessionKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ChatSession{}, fmt.Errorf("chat %s: %w", id, domain.ErrChatNotFound)
		}
		return domain.ChatSession{}, fmt.Errorf("load session: %w", err)
	}

	var session domain.ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

// List returns all sessions, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.ChatSession, error) {
	ids, err := r.store.SMembers(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.ChatSession, 0, len(ids))
	for _, id := range ids {
		session, err := r.Get(ctx, id)
		if err != nil {
			// Index and session key can diverge if a write was interrupted;
			// skip the orphaned id rather than failing the whole listing.
			if errors.Is(err, domain.ErrChatNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// AppendTurn adds a turn to the session's ordered history. The session must
// exist.
func (r *Repo) AppendTurn(ctx context.Context, chatID string, role domain.Role, content string, metadata map[string]any) (domain.ChatTurn, error) {
	if _, err := r.Get(ctx, chatID); err != nil {
		return domain.ChatTurn{}, err
	}

	turn := domain.ChatTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: r.now().UTC(),
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return domain.ChatTurn{}, fmt.Errorf("marshal turn: %w", err)
	}
	if err := r.store.RPush(ctx, r.turnsKey(chatID), data); err != nil {
		return domain.ChatTurn{}, fmt.Errorf("store turn: %w", err)
	}

	return turn, nil
}

// ListTurns returns the session's turns in insertion order.
func (r *Repo) ListTurns(ctx context.Context, chatID string) ([]domain.ChatTurn, error) {
	if _, err := r.Get(ctx, chatID); err != nil {
		return nil, err
	}

	rows, err := r.store.LRange(ctx, r.turnsKey(chatID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}

	turns := make([]domain.ChatTurn, 0, len(rows))
	for _, row := range rows {
		var turn domain.ChatTurn
		if err := json.Unmarshal(row, &turn); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
