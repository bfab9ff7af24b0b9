// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs federated, strategy-driven searches across the
// content sources and returns unified, deduplicated results.
package search

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Backend searches a single content source. Each backend (arXiv, GitHub,
// Hugging Face, ModelScope) implements this interface per the Strategy
// pattern.
type Backend interface {
	Source() types.Source
	Search(ctx context.Context, query string, from, to time.Time, max int) ([]types.SearchResult, error)
}

// Per-keyword result caps. arXiv is the primary source and gets a larger
// slice of the budget.
const (
	arxivPerKeyword = 20
	otherPerKeyword = 10
)

// maxStrategyKeywords bounds how many strategy keywords are searched.
const maxStrategyKeywords = 3

// Aggregate runs the strategy against the backends: up to three keywords,
// each fanned across the strategy's sources in order. A failing source is
// reported as a warning on w and contributes zero results; it never
// aborts the aggregation. Cancellation is honored between source calls
// only. The returned list is deduplicated by exact title, first
// occurrence winning, order preserved.
func Aggregate(ctx context.Context, strategy types.SearchStrategy, backends []Backend, w io.Writer) ([]types.SearchResult, error) {
	from, to := strategy.TimeRange.Window(time.Now())
	enabled := selectBackends(backends, strategy.Sources)

	keywords := strategy.Keywords
	if len(keywords) > maxStrategyKeywords {
		keywords = keywords[:maxStrategyKeywords]
	}

	var all []types.SearchResult
	for _, kw := range keywords {
		fmt.Fprintf(w, "searching: %s\n", kw)
		for _, b := range enabled {
			if err := ctx.Err(); err != nil {
				return DedupeByTitle(all), err
			}

			max := otherPerKeyword
			if b.Source() == types.SourceArxiv {
				max = arxivPerKeyword
			}

			results, err := b.Search(ctx, kw, from, to, max)
			if err != nil {
				fmt.Fprintf(w, "warning: %s search failed: %v\n", b.Source(), err)
				continue
			}
			all = append(all, results...)
		}
	}

	return DedupeByTitle(all), nil
}

// exploreWindow is the recency window for trending exploration.
const exploreWindow = 3 * 24 * time.Hour

// Explore searches all backends for recent activity on the query: a
// fixed three-day window with the budget split evenly across sources
// (at least five per source). Per-source failures are tolerated.
func Explore(ctx context.Context, query string, backends []Backend, maxResults int, w io.Writer) ([]types.SearchResult, error) {
	perSource := maxResults / 4
	if perSource < 5 {
		perSource = 5
	}
	to := time.Now()
	from := to.Add(-exploreWindow)

	var all []types.SearchResult
	for _, b := range backends {
		if err := ctx.Err(); err != nil {
			return DedupeByTitle(all), err
		}
		results, err := b.Search(ctx, query, from, to, perSource)
		if err != nil {
			fmt.Fprintf(w, "warning: %s search failed: %v\n", b.Source(), err)
			continue
		}
		all = append(all, results...)
	}
	return DedupeByTitle(all), nil
}

// DedupeByTitle collapses results sharing an exact title. The first
// occurrence wins and input order is preserved.
func DedupeByTitle(results []types.SearchResult) []types.SearchResult {
	seen := make(map[string]bool, len(results))
	unique := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if seen[r.Title] {
			continue
		}
		seen[r.Title] = true
		unique = append(unique, r)
	}
	return unique
}

// Truncate bounds a result list to the strategy's target count. A
// non-positive max leaves the list untouched.
func Truncate(results []types.SearchResult, max int) []types.SearchResult {
	if max <= 0 || len(results) <= max {
		return results
	}
	return results[:max]
}

// selectBackends filters backends down to the strategy's sources,
// keeping the strategy's source order. An empty source set means all
// backends.
func selectBackends(backends []Backend, sources []types.Source) []Backend {
	if len(sources) == 0 {
		return backends
	}
	bySource := make(map[types.Source]Backend, len(backends))
	for _, b := range backends {
		bySource[b.Source()] = b
	}
	var enabled []Backend
	for _, s := range sources {
		if b, ok := bySource[s]; ok {
			enabled = append(enabled, b)
		}
	}
	return enabled
}
