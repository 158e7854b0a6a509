package kb

// Entry is a single knowledge-base article. Content carries the canonical
// HTML answer body; Transcript holds the plain-text video transcript when
// the article was sourced from an academy video.
type Entry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Transcript string   `json:"transcript,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Images     []string `json:"images,omitempty"`
}

// Match pairs an entry with the lexical score it earned for a query.
type Match struct {
	Entry Entry
	Score int
}
