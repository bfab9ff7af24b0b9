package main

import (
	"testing"

	"github.com/pdiddy/research-assistant/pkg/types"
)

func titled(titles ...string) []types.SearchResult {
	results := make([]types.SearchResult, len(titles))
	for i, t := range titles {
		results[i] = types.SearchResult{Title: t, Source: types.SourceArxiv}
	}
	return results
}

func TestFallbackResults(t *testing.T) {
	tests := []struct {
		name      string
		matched   []types.SearchResult
		unmatched []types.SearchResult
		target    int
		want      []string
	}{
		{
			name:      "matched set passes through untouched",
			matched:   titled("A", "B"),
			unmatched: titled("C", "D", "E"),
			target:    1,
			want:      []string{"A", "B"},
		},
		{
			name:      "no matches falls back to first target results",
			unmatched: titled("A", "B", "C", "D"),
			target:    2,
			want:      []string{"A", "B"},
		},
		{
			name:      "fallback shorter than target keeps everything",
			unmatched: titled("A", "B"),
			target:    20,
			want:      []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fallbackResults(tt.matched, tt.unmatched, tt.target)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].Title != want {
					t.Errorf("result %d: got %q, want %q", i, got[i].Title, want)
				}
			}
		})
	}
}
