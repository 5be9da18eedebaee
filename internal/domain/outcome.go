package domain

// Status classifies the terminal state of one answer pipeline run.
type Status string

// Terminal statuses. NoResults and NoContext are successful outcomes with
// canned answers, not failures.
const (
	StatusAnswered         Status = "answered"
	StatusNoResults        Status = "no_results"
	StatusNoContext        Status = "no_context"
	StatusEmbeddingFailed  Status = "embedding_failed"
	StatusSearchFailed     Status = "search_failed"
	StatusGenerationFailed Status = "generation_failed"
)

// Failed reports whether the status represents a genuine upstream failure.
func (s Status) Failed() bool {
	switch s {
	case StatusEmbeddingFailed, StatusSearchFailed, StatusGenerationFailed:
		return true
	}
	return false
}

// Canned user-safe responses. Raw upstream errors never reach the user.
const (
	MsgEmbeddingFailed  = "Sorry, I could not process your question. Embedding failed."
	MsgSearchFailed     = "Sorry, I encountered an error while searching for information."
	MsgGenerationFailed = "Sorry, I could not generate a response."
	MsgNoResults        = "No relevant information found in the knowledge base to answer this question."
	MsgNoContext        = "Could not find specific information to answer your question based on the retrieved documents."
)

// Outcome is the user-visible result of one orchestrated answer run.
type Outcome struct {
	Status Status
	Answer string
	// Raw holds the unparsed completion payload when content extraction
	// failed despite a structurally successful response.
	Raw string
}
