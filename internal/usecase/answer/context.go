package answer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/librarian/internal/domain"
)

// blockSeparator joins context snippets in rank order.
const blockSeparator = "\n\n---\n\n"

// BuildContext assembles the grounding block from search hits. Pure function:
// identical input always yields byte-identical output.
//
// Hits without a non-empty searchable_content payload are skipped. Each kept
// hit becomes a labeled snippet with its id and score; a Title line is added
// only when the content does not already start with one for the same title.
// Input order (the store's rank order) is preserved. Zero surviving hits
// yield an empty context, which callers treat as "no grounding available",
// not as an error.
func BuildContext(hits []domain.SearchHit) string {
	snippets := make([]string, 0, len(hits))

	for _, hit := range hits {
		content := hit.PayloadString(domain.PayloadSearchable)
		if content == "" {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Source Document (ID: %v, Score: %s):\n", hit.ID, formatScore(hit.Score))

		if title := hit.PayloadString(domain.PayloadTitle); title != "" &&
			!strings.Contains(content, "Title: "+title) {
			b.WriteString("Title: " + title + "\n")
		}

		b.WriteString(content)
		snippets = append(snippets, b.String())
	}

	return strings.Join(snippets, blockSeparator)
}

// formatScore rounds to 4 decimal places and trims trailing zeros, so 0.91
// renders as "0.91", not "0.9100".
func formatScore(score float64) string {
	return strconv.FormatFloat(math.Round(score*10000)/10000, 'f', -1, 64)
}
