package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// fileRecord is the JSON shape of one corpus file entry. ID is optional;
// records without one get a slug-derived point id.
type fileRecord struct {
	ID         *int   `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Language   string `json:"language"`
	Year       string `json:"year"`
	CopiesSold string `json:"copies_sold"`
	Genre      string `json:"genre"`
	Gist       string `json:"gist"`
}

// LoadFile reads a JSON array of book records from path. The file's base name
// becomes the record source tag.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var entries []fileRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus file %s: %w", path, err)
	}

	source := filepath.Base(path)
	records := make([]Record, 0, len(entries))
	for i, e := range entries {
		if e.Title == "" {
			return nil, fmt.Errorf("corpus file %s: entry %d has no title", path, i)
		}
		rec := Record{
			Source: source,
			Fields: []Field{
				{Name: "title", Value: e.Title},
				{Name: "author", Value: e.Author},
				{Name: "language", Value: e.Language},
				{Name: "year", Value: e.Year},
				{Name: "copies_sold", Value: e.CopiesSold},
				{Name: "genre", Value: e.Genre},
				{Name: "gist", Value: e.Gist},
			},
		}
		if e.ID != nil {
			rec.ID = *e.ID
		}
		records = append(records, rec)
	}
	return records, nil
}
