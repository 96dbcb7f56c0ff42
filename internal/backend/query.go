package backend

import (
	"fmt"

	"github.com/JaimeStill/research-library/pkg/decode"
)

// QueryRequest scopes a natural-language question to a set of documents.
// An empty DocumentIDs slice means all documents.
type QueryRequest struct {
	Query       string   `json:"query"`
	DocumentIDs []string `json:"pdf_ids"`
}

// QueryResult is the retrieval engine's answer. Sources are opaque metadata
// records describing the chunks the answer was drawn from.
type QueryResult struct {
	Status  string   `json:"status"`
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Source is one opaque metadata record attached to an answer.
type Source map[string]any

// SourceRef is the typed view of the keys the backend's loader records on
// every chunk. Page is zero-based when present.
type SourceRef struct {
	DocumentID string `json:"pdf_id"`
	Title      string `json:"title"`
	Page       *int   `json:"page"`
}

// Ref decodes the well-known keys of the source. Unknown keys are ignored.
func (s Source) Ref() (SourceRef, error) {
	return decode.FromMap[SourceRef](s)
}

// Label renders the source for display: its title, or its pdf_id when
// untitled, followed by a one-based page number when one is recorded.
func (s Source) Label() string {
	ref, err := s.Ref()
	if err != nil {
		ref = SourceRef{DocumentID: s.DocumentID(), Title: s.Title()}
	}

	label := ref.Title
	if label == "" {
		label = ref.DocumentID
	}
	if ref.Page != nil {
		label = fmt.Sprintf("%s (page %d)", label, *ref.Page+1)
	}
	return label
}

// DocumentID returns the pdf_id recorded on the source, if any.
func (s Source) DocumentID() string {
	return s.str("pdf_id")
}

// Title returns the title recorded on the source, if any.
func (s Source) Title() string {
	return s.str("title")
}

func (s Source) str(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}
