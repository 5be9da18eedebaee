package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/librarian/internal/db"
	"github.com/kailas-cloud/librarian/internal/domain"
)

// fakeStore is an in-memory stand-in for the Redis store.
type fakeStore struct {
	kv    map[string][]byte
	lists map[string][][]byte
	sets  map[string]map[string]struct{}
	fail  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		kv:    make(map[string][]byte),
		lists: make(map[string][][]byte),
		sets:  make(map[string]map[string]struct{}),
	}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	v, ok := f.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte) error {
	if f.fail != nil {
		return f.fail
	}
	f.kv[key] = value
	return nil
}

func (f *fakeStore) RPush(_ context.Context, key string, values ...[]byte) error {
	if f.fail != nil {
		return f.fail
	}
	f.lists[key] = append(f.lists[key], values...)
	return nil
}

func (f *fakeStore) LRange(_ context.Context, key string, _, _ int64) ([][]byte, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.lists[key], nil
}

func (f *fakeStore) SAdd(_ context.Context, key string, members ...string) error {
	if f.fail != nil {
		return f.fail
	}
	if f.sets[key] == nil {
		f.sets[key] = make(map[string]struct{})
	}
	for _, m := range members {
		f.sets[key][m] = struct{}{}
	}
	return nil
}

func (f *fakeStore) SMembers(_ context.Context, key string) ([]string, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

func TestRepo_CreateAndGet(t *testing.T) {
	store := newFakeStore()
	repo := New(store, "librarian:")

	session, err := repo.Create(context.Background(), "about books")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.ID == "" {
		t.Fatal("session id must be generated")
	}
	if session.Title != "about books" {
		t.Errorf("title = %q", session.Title)
	}

	got, err := repo.Get(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != session.ID || got.Title != session.Title {
		t.Errorf("got = %+v, want %+v", got, session)
	}

	// Keys are namespaced by the configured prefix.
	if _, ok := store.kv["librarian:chat:"+session.ID]; !ok {
		t.Errorf("session key missing prefix: %v", keysOf(store.kv))
	}
}

func TestRepo_GetMissing(t *testing.T) {
	repo := New(newFakeStore(), "librarian:")

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestRepo_List(t *testing.T) {
	store := newFakeStore()
	repo := New(store, "librarian:")

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		ts = ts.Add(time.Minute)
		return ts
	}

	first, _ := repo.Create(context.Background(), "first")
	second, _ := repo.Create(context.Background(), "second")

	sessions, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d", len(sessions))
	}
	// Newest first.
	if sessions[0].ID != second.ID || sessions[1].ID != first.ID {
		t.Errorf("order wrong: %+v", sessions)
	}
}

func TestRepo_ListSkipsOrphanedIndexEntries(t *testing.T) {
	store := newFakeStore()
	repo := New(store, "librarian:")

	session, _ := repo.Create(context.Background(), "kept")
	_ = store.SAdd(context.Background(), "librarian:chats", "dangling-id")

	sessions, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestRepo_AppendAndListTurns(t *testing.T) {
	store := newFakeStore()
	repo := New(store, "librarian:")

	session, _ := repo.Create(context.Background(), "")

	if _, err := repo.AppendTurn(context.Background(), session.ID, domain.RoleUser, "who wrote it?", nil); err != nil {
		t.Fatalf("AppendTurn user: %v", err)
	}
	meta := map[string]any{"error": "generation_failed"}
	if _, err := repo.AppendTurn(context.Background(), session.ID, domain.RoleAssistant, "Sorry.", meta); err != nil {
		t.Fatalf("AppendTurn assistant: %v", err)
	}

	turns, err := repo.ListTurns(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("turns = %d", len(turns))
	}
	if turns[0].Role != domain.RoleUser || turns[0].Content != "who wrote it?" {
		t.Errorf("first turn = %+v", turns[0])
	}
	if turns[1].Role != domain.RoleAssistant {
		t.Errorf("second turn = %+v", turns[1])
	}
	if turns[1].Metadata["error"] != "generation_failed" {
		t.Errorf("metadata lost: %+v", turns[1].Metadata)
	}

	// Turns are stored as JSON list entries under the session's turns key.
	raw := store.lists["librarian:chat:"+session.ID+":turns"]
	if len(raw) != 2 {
		t.Fatalf("list entries = %d", len(raw))
	}
	var decoded domain.ChatTurn
	if err := json.Unmarshal(raw[0], &decoded); err != nil {
		t.Fatalf("list entry is not JSON: %v", err)
	}
}

func TestRepo_AppendTurnMissingSession(t *testing.T) {
	repo := New(newFakeStore(), "librarian:")

	_, err := repo.AppendTurn(context.Background(), "nope", domain.RoleUser, "hi", nil)
	if !errors.Is(err, domain.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestRepo_StoreFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.fail = errors.New("connection reset")
	repo := New(store, "librarian:")

	if _, err := repo.Create(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMemory(t *testing.T) {
	repo := NewMemory()

	session, err := repo.Create(context.Background(), "in memory")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.AppendTurn(context.Background(), session.ID, domain.RoleUser, "q", nil); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if _, err := repo.AppendTurn(context.Background(), "missing", domain.RoleUser, "q", nil); !errors.Is(err, domain.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}

	turns, err := repo.ListTurns(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "q" {
		t.Errorf("turns = %+v", turns)
	}

	sessions, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("sessions = %d", len(sessions))
	}
}

func keysOf(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
