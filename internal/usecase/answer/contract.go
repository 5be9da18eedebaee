package answer

import (
	"context"

	"github.com/kailas-cloud/librarian/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
}

// Searcher runs similarity queries against the vector index.
type Searcher interface {
	Search(ctx context.Context, collection string, vector domain.Vector, params domain.SearchParams) ([]domain.SearchHit, error)
}

// Completer generates a reply from role-tagged messages.
type Completer interface {
	Chat(ctx context.Context, messages []domain.Message) (domain.Completion, error)
}

// TurnStore persists chat turns. The orchestrator appends the user question
// and the assistant answer; it never reads history for prompt construction.
type TurnStore interface {
	AppendTurn(ctx context.Context, chatID string, role domain.Role, content string, metadata map[string]any) (domain.ChatTurn, error)
}
