// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivBatchSize is the page size used when walking the feed for results
// inside the publication window.
const arxivBatchSize = 50

// ArxivBackend queries the arXiv Atom API.
type ArxivBackend struct {
	Client    *http.Client
	UserAgent string
}

// Source returns the backend's source tag.
func (b *ArxivBackend) Source() types.Source { return types.SourceArxiv }

// Search pages through the feed sorted by submission date and keeps the
// entries published inside [from, to], up to max results. Paging stops
// when a page yields no in-window entries.
func (b *ArxivBackend) Search(ctx context.Context, query string, from, to time.Time, max int) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	if max <= 0 {
		max = arxivPerKeyword
	}

	var results []types.SearchResult
	offset := 0
	for len(results) < max {
		batch := arxivBatchSize
		if remaining := max - len(results); remaining < batch {
			batch = remaining
		}

		feed, err := b.fetchPage(ctx, query, offset, batch)
		if err != nil {
			return nil, err
		}

		var kept int
		for _, entry := range feed.Entries {
			published, err := time.Parse(time.RFC3339, entry.Published)
			if err != nil || published.Before(from) || published.After(to) {
				continue
			}
			results = append(results, entryToResult(entry, published))
			kept++
			if len(results) >= max {
				break
			}
		}

		if kept == 0 || kept < batch {
			break
		}
		offset += batch
	}

	return results, nil
}

// fetchPage requests one page of the Atom feed.
func (b *ArxivBackend) fetchPage(ctx context.Context, query string, start, count int) (*arxivFeed, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", fmt.Sprint(start))
	params.Set("max_results", fmt.Sprint(count))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// entryToResult maps one Atom entry to the uniform record.
func entryToResult(entry arxivEntry, published time.Time) types.SearchResult {
	r := types.SearchResult{
		Title:     strings.Join(strings.Fields(entry.Title), " "),
		Abstract:  strings.TrimSpace(entry.Summary),
		URL:       entry.ID,
		PDFURL:    strings.Replace(entry.ID, "/abs/", "/pdf/", 1),
		Published: published.Format("2006-01-02"),
		Source:    types.SourceArxiv,
	}
	for _, a := range entry.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range entry.Categories {
		r.Categories = append(r.Categories, c.Term)
	}
	return r
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}
