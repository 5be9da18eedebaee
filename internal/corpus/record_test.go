package corpus

import "testing"

func TestEmbeddingText_FieldOrder(t *testing.T) {
	rec := Record{
		ID: 1,
		Fields: []Field{
			{Name: "title", Value: "The Hobbit"},
			{Name: "author", Value: "J.R.R. Tolkien"},
			{Name: "copies_sold", Value: "100 million"},
		},
	}

	want := "Title: The Hobbit. Author: J.R.R. Tolkien. Copies_sold: 100 million."
	if got := rec.EmbeddingText(); got != want {
		t.Errorf("EmbeddingText:\ngot:  %q\nwant: %q", got, want)
	}

	// Deterministic: repeated calls yield identical output.
	if rec.EmbeddingText() != want {
		t.Error("EmbeddingText is not deterministic")
	}
}

func TestPointID_FallsBackToSlug(t *testing.T) {
	rec := Record{
		Fields: []Field{
			{Name: "title", Value: "The Great Gatsby"},
			{Name: "author", Value: "F. Scott Fitzgerald"},
		},
	}

	want := "the-great-gatsby-f-scott-fitzgerald"
	if got := rec.PointID(); got != want {
		t.Errorf("PointID = %v, want %q", got, want)
	}

	// Stable across runs for idempotent re-ingestion.
	if rec.PointID() != rec.PointID() {
		t.Error("PointID is not stable")
	}

	withID := Record{ID: 42, Fields: rec.Fields}
	if withID.PointID() != 42 {
		t.Errorf("explicit ID must win, got %v", withID.PointID())
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Harry Potter and the Philosopher's Stone-J.K. Rowling", "harry-potter-and-the-philosopher-s-stone-j-k-rowling"},
		{"1984", "1984"},
		{"  spaced  out  ", "spaced-out"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPayload(t *testing.T) {
	rec := Record{
		ID:     7,
		Source: "predefined_books_list",
		Fields: []Field{
			{Name: "title", Value: "Ichamati"},
			{Name: "author", Value: "Bibhutibhushan Bandyopadhyay"},
		},
	}

	payload := rec.Payload("Title: Ichamati. Author: Bibhutibhushan Bandyopadhyay.")

	if payload["title"] != "Ichamati" {
		t.Errorf("title = %v", payload["title"])
	}
	if payload["searchable_content"] != "Title: Ichamati. Author: Bibhutibhushan Bandyopadhyay." {
		t.Errorf("searchable_content = %v", payload["searchable_content"])
	}
	if payload["source"] != "predefined_books_list" {
		t.Errorf("source = %v", payload["source"])
	}
}

func TestBooks_SeedCorpus(t *testing.T) {
	records := Books()
	if len(records) != 30 {
		t.Fatalf("seed corpus has %d records, expected 30", len(records))
	}

	first := records[0]
	if first.PointID() != 1 {
		t.Errorf("first record id = %v", first.PointID())
	}
	if first.Field("title") != "Harry Potter and the Philosopher's Stone" {
		t.Errorf("first title = %q", first.Field("title"))
	}
	if got := first.Fields[0].Name; got != "title" {
		t.Errorf("first field = %q, expected title to lead the embedding text", got)
	}
}
