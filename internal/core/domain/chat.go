package domain

// DefaultChatLimit is the number of passages retrieved when a query gives no limit.
const DefaultChatLimit = 1

// ChatQuery is one natural-language question from a client.
type ChatQuery struct {
	// Query is the user's question.
	Query string `json:"query"`

	// Limit is the number of passages to retrieve (default 1).
	Limit int `json:"limit,omitempty"`
}

// EffectiveLimit returns the limit, substituting the default for values below 1.
func (q ChatQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultChatLimit
	}
	return q.Limit
}

// Source is a citation for one retrieved passage.
// Missing metadata is reported as null rather than treated as an error.
type Source struct {
	Page   *int    `json:"page"`
	Source *string `json:"source"`
}

// SourceOf builds the citation for a passage.
func SourceOf(p Passage) Source {
	var src Source
	if p.Metadata.PageNumber != nil {
		page := *p.Metadata.PageNumber
		src.Page = &page
	}
	if p.Metadata.Source != "" {
		name := p.Metadata.Source
		src.Source = &name
	}
	return src
}

// ChatResponse is the grounded answer to a ChatQuery.
// It is not persisted server-side.
type ChatResponse struct {
	Query        string   `json:"query"`
	Answer       string   `json:"answer"`
	Sources      []Source `json:"sources"`
	ResultsFound int      `json:"resultsFound"`
}
