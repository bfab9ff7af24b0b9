// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// fakeArxiv replays canned per-term results and records queries.
type fakeArxiv struct {
	results map[string][]types.SearchResult
	errs    map[string]error
	queries []string
	windows [][2]time.Time
}

func (f *fakeArxiv) Source() types.Source { return types.SourceArxiv }

func (f *fakeArxiv) Search(_ context.Context, query string, from, to time.Time, _ int) ([]types.SearchResult, error) {
	f.queries = append(f.queries, query)
	f.windows = append(f.windows, [2]time.Time{from, to})
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func paper(title, abstract string) types.SearchResult {
	return types.SearchResult{Title: title, Abstract: abstract, Source: types.SourceArxiv}
}

func TestParseSearchTerms(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			"quoted terms on keyword lines",
			"1. Core technical keywords:\n- keyword 1: \"sparse attention\"\n- keyword 2: 'linear transformers'",
			[]string{"sparse attention", "linear transformers"},
		},
		{
			"colon form without quotes",
			"search term: efficient attention mechanisms",
			[]string{"efficient attention mechanisms"},
		},
		{
			"full-width colon tolerated",
			"关键词：long context modeling",
			[]string{"long context modeling"},
		},
		{
			"whole-line fallback",
			"x\nsparse attention for long documents\nok",
			[]string{"sparse attention for long documents"},
		},
		{
			"capped at five",
			`keywords: "a1b", "a2b", "a3b", "a4b", "a5b", "a6b"`,
			[]string{"a1b", "a2b", "a3b", "a4b", "a5b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSearchTerms(tt.response); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSearchTerms() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRelatedWorkShortCircuitsOnNoResults(t *testing.T) {
	client := &scriptClient{script: []llm.Completion{
		stop(`keyword 1: "quantum widgets"`),
	}}
	arxiv := &fakeArxiv{}
	p := NewRelatedWork(llm.NewCaller(client, "gpt-4"), arxiv)

	report, err := p.Run(context.Background(), "Title: X\nAbstract: Y", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report != NoRelatedResults {
		t.Errorf("report = %q, want the fixed no-results message", report)
	}
	// Only the keyword extraction call; nothing after the short-circuit.
	if len(client.requests) != 1 {
		t.Errorf("got %d model calls, want 1", len(client.requests))
	}
}

func TestRelatedWorkFlow(t *testing.T) {
	client := &scriptClient{script: []llm.Completion{
		stop("keyword 1: \"alpha\"\nkeyword 2: \"beta\"\nkeyword 3: \"gamma\"\nkeyword 4: \"delta\""),
		stop("[1] Paper A - closest match"),
		stop("tech comparison"),
		stop("experiment comparison"),
		stop("final related-work report"),
	}}
	arxiv := &fakeArxiv{
		results: map[string][]types.SearchResult{
			"alpha": {paper("Paper A", "about alpha"), paper("Paper B", "about alpha too")},
			"beta":  {paper("Paper A", "about alpha"), paper("Paper C", "about beta")},
		},
		errs: map[string]error{"gamma": errors.New("arXiv unavailable")},
	}
	p := NewRelatedWork(llm.NewCaller(client, "gpt-4"), arxiv)

	report, err := p.Run(context.Background(), "Title: X\nAbstract: Y", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report != "final related-work report" {
		t.Errorf("report = %q", report)
	}

	// Only the first three terms are searched; the fourth is dropped and
	// the per-term failure on gamma is tolerated.
	if want := []string{"alpha", "beta", "gamma"}; !reflect.DeepEqual(arxiv.queries, want) {
		t.Errorf("queries = %v, want %v", arxiv.queries, want)
	}

	// The search window spans three years.
	window := arxiv.windows[0][1].Sub(arxiv.windows[0][0])
	if window != relatedWindow {
		t.Errorf("window = %v, want %v", window, relatedWindow)
	}

	// The filter stage sees the deduplicated numbered digest.
	filterContent := client.requests[1].Messages[1].Text
	for _, want := range []string{"[1] Paper A", "[2] Paper B", "[3] Paper C"} {
		if !strings.Contains(filterContent, want) {
			t.Errorf("filter content missing %q:\n%s", want, filterContent)
		}
	}
	if strings.Count(filterContent, "Paper A") != 1 {
		t.Errorf("duplicate title not collapsed:\n%s", filterContent)
	}

	if len(client.requests) != 5 {
		t.Errorf("got %d model calls, want 5", len(client.requests))
	}
}

func TestCandidateDigestCapsAndClips(t *testing.T) {
	long := strings.Repeat("x", 1000)
	var papers []types.SearchResult
	for i := 0; i < relatedCandidates+10; i++ {
		papers = append(papers, paper(strings.Repeat("t", i+1), long))
	}

	digest := candidateDigest(papers)
	if strings.Contains(digest, "[21]") {
		t.Error("digest lists more than twenty candidates")
	}
	for _, line := range strings.Split(digest, "\n") {
		if strings.HasPrefix(line, "Abstract: ") && len(line) > len("Abstract: ")+relatedExcerptSize+3 {
			t.Errorf("abstract excerpt not clipped: %d bytes", len(line))
		}
	}
}
