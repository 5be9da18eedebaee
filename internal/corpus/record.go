// Package corpus defines the structured records fed into ingestion: ordered
// named fields per record, the embedding text derivation, and the payload
// stored alongside each vector.
package corpus

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/librarian/internal/domain"
)

// Field is one named value of a record. Order matters: embedding text follows
// field-declaration order so re-ingestion stays deterministic.
type Field struct {
	Name  string
	Value string
}

// Record is one ingestable item: a stable identifier plus ordered fields.
// A nil ID falls back to a deterministic slug of title and author.
type Record struct {
	ID     any
	Fields []Field
	Source string
}

// Field returns the value of the named field, or "" when absent.
func (r Record) Field(name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// EmbeddingText builds the text embedded for this record: every field as
// "Fieldname: value" joined by ". " with a trailing period, in field order.
func (r Record) EmbeddingText() string {
	parts := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		parts = append(parts, capitalize(f.Name)+": "+f.Value)
	}
	return strings.Join(parts, ". ") + "."
}

// PointID returns the record's stable identifier, or a slug of title and
// author when none is set. Stable across runs for idempotent re-ingestion.
func (r Record) PointID() any {
	if r.ID != nil {
		return r.ID
	}
	return Slug(r.Field("title") + "-" + r.Field("author"))
}

// Payload builds the point payload: all fields, the searchable content, and
// the record source when set.
func (r Record) Payload(searchable string) map[string]any {
	payload := make(map[string]any, len(r.Fields)+2)
	for _, f := range r.Fields {
		payload[f.Name] = f.Value
	}
	payload[domain.PayloadSearchable] = searchable
	if r.Source != "" {
		payload[domain.PayloadSource] = r.Source
	}
	return payload
}

// Slug lowercases s and collapses every non-alphanumeric run into one hyphen.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
