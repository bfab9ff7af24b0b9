// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Source tags a search result with the service it came from.
type Source string

const (
	SourceArxiv       Source = "arxiv"
	SourceGitHub      Source = "github"
	SourceHuggingFace Source = "huggingface"
	SourceModelScope  Source = "modelscope"
)

// AllSources lists every supported source in canonical order.
func AllSources() []Source {
	return []Source{SourceArxiv, SourceGitHub, SourceHuggingFace, SourceModelScope}
}

// ResultKind classifies a result by the shape of its payload, replacing
// scattered branching on the raw source tag.
type ResultKind string

const (
	KindPaper      ResultKind = "paper"
	KindRepository ResultKind = "repository"
	KindModelEntry ResultKind = "model"
)

// SearchResult is the uniform record produced by the per-source search
// clients. Title is the dedup key across sources and keywords. Only the
// fields matching the result's kind are populated.
type SearchResult struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source Source `json:"source"`

	// Paper fields (arxiv).
	Authors    []string `json:"authors,omitempty"`
	Abstract   string   `json:"abstract,omitempty"`
	Published  string   `json:"published,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`
	Categories []string `json:"categories,omitempty"`

	// Repository fields (github).
	Description string   `json:"description,omitempty"`
	Stars       int      `json:"stars,omitempty"`
	Language    string   `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	Updated     string   `json:"updated,omitempty"`

	// Model-hub fields (huggingface, modelscope).
	Downloads int      `json:"downloads,omitempty"`
	Likes     int      `json:"likes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Kind maps the source tag to the payload shape.
func (r SearchResult) Kind() ResultKind {
	switch r.Source {
	case SourceArxiv:
		return KindPaper
	case SourceHuggingFace, SourceModelScope:
		return KindModelEntry
	default:
		return KindRepository
	}
}

// Excerpt returns the descriptive text used for relevance filtering:
// the abstract for papers, the description otherwise.
func (r SearchResult) Excerpt() string {
	if r.Abstract != "" {
		return r.Abstract
	}
	return r.Description
}
