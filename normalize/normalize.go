package normalize

import (
	"strings"
	"time"

	"github.com/jonwraymond/safelaw/resolve"
	"github.com/jonwraymond/safelaw/upstream"
)

// noContentMarkers are upstream placeholder strings that carry no
// information. A snippet that contains one is treated as empty.
var noContentMarkers = []string{"내용없음", "내용 없음"}

// Item is the outward-facing record. Every Item has a valid absolute
// ResolvedLink and a non-empty Snippet; anything else was dropped.
type Item struct {
	DocumentID     string   `json:"documentId"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	ResolvedLink   string   `json:"resolvedLink"`
	Snippet        string   `json:"snippet"`
	RelevanceScore *float64 `json:"relevanceScore,omitempty"`
}

// Response is the normalized search envelope returned to callers and
// stored in the query cache.
type Response struct {
	TotalCount  int       `json:"totalCount"`
	PageNo      int       `json:"pageNo"`
	NumOfRows   int       `json:"numOfRows"`
	Items       []Item    `json:"items"`
	RetrievedAt time.Time `json:"retrievedAt"`
}

// Normalizer merges, deduplicates, and filters raw upstream records.
type Normalizer struct {
	resolver *resolve.Resolver
}

// NewNormalizer creates a normalizer using the given link resolver.
func NewNormalizer(resolver *resolve.Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// Normalize reconciles the primary (law) and secondary (media) result lists
// into one clean set. The primary list wins on duplicate document IDs.
// Output order is input order after dedup and filtering; no re-sorting.
func (n *Normalizer) Normalize(primary, secondary []upstream.RawItem) []Item {
	merged := make([]upstream.RawItem, 0, len(primary)+len(secondary))
	merged = append(merged, primary...)
	merged = append(merged, secondary...)

	seen := make(map[string]struct{}, len(merged))
	items := make([]Item, 0, len(merged))

	for _, raw := range merged {
		if _, dup := seen[raw.DocumentID]; dup {
			continue
		}
		seen[raw.DocumentID] = struct{}{}

		link, ok := n.resolver.Resolve(raw)
		if !ok {
			continue
		}
		snippet := extractSnippet(raw)
		if snippet == "" {
			continue
		}

		items = append(items, Item{
			DocumentID:     raw.DocumentID,
			Title:          raw.Title,
			Category:       raw.Category,
			ResolvedLink:   link,
			Snippet:        snippet,
			RelevanceScore: raw.RelevanceScore,
		})
	}

	return items
}

// Envelope normalizes a full upstream result into the outward response.
func (n *Normalizer) Envelope(result *upstream.Result, now time.Time) *Response {
	return &Response{
		TotalCount:  result.TotalCount,
		PageNo:      result.PageNo,
		NumOfRows:   result.NumOfRows,
		Items:       n.Normalize(result.Primary, result.Media),
		RetrievedAt: now,
	}
}

// extractSnippet picks the display text: highlight when present, body
// otherwise, empty when only a no-content placeholder remains.
func extractSnippet(raw upstream.RawItem) string {
	snippet := raw.HighlightText
	if strings.TrimSpace(snippet) == "" {
		snippet = raw.BodyText
	}
	snippet = strings.TrimSpace(snippet)
	for _, marker := range noContentMarkers {
		if strings.Contains(snippet, marker) {
			return ""
		}
	}
	return snippet
}
