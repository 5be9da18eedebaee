package domain

// Vector is a fixed-length embedding produced by the inference API.
// Opaque beyond dimension compatibility with its collection.
type Vector []float32

// Distance is the similarity metric of a collection.
type Distance string

// Distance metrics accepted by the vector index.
const (
	DistanceCosine Distance = "Cosine"
	DistanceEuclid Distance = "Euclid"
	DistanceDot    Distance = "Dot"
)

// Valid reports whether d is one of the accepted metrics.
func (d Distance) Valid() bool {
	switch d {
	case DistanceCosine, DistanceEuclid, DistanceDot:
		return true
	}
	return false
}

// SearchHit is one scored point returned by the vector index, ordered by
// descending score within a result set. Score interpretation depends on the
// collection's distance metric. Treat as immutable after construction.
type SearchHit struct {
	ID      any
	Score   float64
	Payload map[string]any
}

// PayloadString returns the payload value under key when it is a non-empty string.
func (h SearchHit) PayloadString(key string) string {
	if v, ok := h.Payload[key].(string); ok {
		return v
	}
	return ""
}

// Point is an upsertable vector record. Identity is ID within a collection;
// re-upserting an existing ID overwrites the point.
type Point struct {
	ID      any            `json:"id"`
	Vector  Vector         `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// SearchParams tunes a similarity search.
type SearchParams struct {
	Limit          int
	ScoreThreshold *float64       // optional minimum similarity
	Filter         map[string]any // optional index-side predicate, passed through as-is
}

// Payload keys conventionally carried by indexed documents.
const (
	PayloadTitle      = "title"
	PayloadAuthor     = "author"
	PayloadSearchable = "searchable_content"
	PayloadSource     = "source"
)
