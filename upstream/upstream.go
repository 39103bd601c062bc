package upstream

// RawItem is one record as the upstream returns it. Immutable once decoded;
// it lives only for the duration of one normalization pass.
type RawItem struct {
	DocumentID     string   `json:"documentId"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	BodyText       string   `json:"bodyText"`
	HighlightText  string   `json:"highlightText,omitempty"`
	SourcePath     string   `json:"sourcePath,omitempty"`
	RelevanceScore *float64 `json:"relevanceScore,omitempty"`
}

// Params are the four query parameters of one search call.
type Params struct {
	SearchValue string
	Category    int
	PageNo      int
	NumOfRows   int
}

// Result is one decoded upstream page: the law/document list plus the
// media list, before any normalization.
type Result struct {
	TotalCount int
	PageNo     int
	NumOfRows  int
	Primary    []RawItem
	Media      []RawItem
}
