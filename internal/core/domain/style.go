package domain

import "strings"

// Response formats.
const (
	FormatBulletPoints = "bullet points"
	FormatParagraphs   = "paragraphs"
)

// Response lengths.
const (
	LengthBrief    = "brief"
	LengthDetailed = "detailed"
	LengthConcise  = "concise"
)

// ResponseStyle is the answer format and length inferred from a query.
type ResponseStyle struct {
	Format string `json:"format"`
	Length string `json:"length"`
}

// InferStyle derives the response style from keywords in the query.
// Matching is a case-insensitive substring test; "short" wins over
// "detailed" and "explain".
func InferStyle(query string) ResponseStyle {
	q := strings.ToLower(query)

	format := FormatParagraphs
	if containsAny(q, "point", "list", "steps") {
		format = FormatBulletPoints
	}

	var length string
	switch {
	case strings.Contains(q, "short"):
		length = LengthBrief
	case containsAny(q, "detailed", "explain"):
		length = LengthDetailed
	default:
		length = LengthConcise
	}

	return ResponseStyle{Format: format, Length: length}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
