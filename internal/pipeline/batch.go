// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// RepoFetcher fetches a repository's analyzable material.
type RepoFetcher interface {
	FetchRepoContent(ctx context.Context, fullName string, withImages bool) (*search.RepoContent, error)
}

// ModelFetcher fetches a model card's analyzable material.
type ModelFetcher interface {
	FetchModelContent(ctx context.Context, modelID string) (*search.ModelContent, error)
}

// ImageExtractor produces image references for a paper's PDF. Extraction
// is a collaborator concern; a nil extractor simply yields no images.
type ImageExtractor interface {
	ExtractImages(ctx context.Context, pdfURL string, max int) ([]types.ImageRef, error)
}

// paperImageMax caps how many PDF images feed one analysis.
const paperImageMax = 3

// Summary counts a batch run's outcomes.
type Summary struct {
	Analyzed int
	Failed   int
}

// Batch analyzes a slice of search results one by one, choosing the
// pipeline by each result's kind and assembling its content from the
// matching fetcher. Per-item failures are recorded in the result map and
// never abort the batch.
type Batch struct {
	Papers   *ContentAnalysis
	Projects *ContentAnalysis

	GitHub      RepoFetcher
	HuggingFace ModelFetcher
	ModelScope  ModelFetcher
	Images      ImageExtractor

	// FetchImages enables image collection for the vision stage. It has
	// no effect when the model is not multimodal.
	FetchImages bool

	// ReportDir, when set, receives one YAML report file per item.
	ReportDir string
}

// Run analyzes every result and returns the reports keyed by title. A
// failed item's value is a failure marker containing the error.
func (b *Batch) Run(ctx context.Context, results []types.SearchResult, progress Progress) (map[string]string, Summary, error) {
	if progress == nil {
		progress = func(string) {}
	}

	reports := make(map[string]string, len(results))
	var summary Summary
	for i, r := range results {
		progress(fmt.Sprintf("analyzing (%d/%d): %s", i+1, len(results), clip(r.Title, 40)))

		report, err := b.analyzeOne(ctx, r, progress)
		if err != nil {
			reports[r.Title] = fmt.Sprintf("analysis failed: %v", err)
			summary.Failed++
			continue
		}
		reports[r.Title] = report
		summary.Analyzed++

		if b.ReportDir != "" {
			if err := b.writeReport(r, report); err != nil {
				return reports, summary, fmt.Errorf("writing report for %q: %w", r.Title, err)
			}
		}
	}
	return reports, summary, nil
}

// analyzeOne assembles the item's content and runs the matching
// pipeline.
func (b *Batch) analyzeOne(ctx context.Context, r types.SearchResult, progress Progress) (string, error) {
	switch r.Kind() {
	case types.KindPaper:
		var images []types.ImageRef
		if b.FetchImages && b.Images != nil {
			var err error
			images, err = b.Images.ExtractImages(ctx, r.PDFURL, paperImageMax)
			if err != nil {
				images = nil
			}
		}
		return b.Papers.Run(ctx, PaperContent(r), images, progress)

	case types.KindRepository:
		fetched, err := b.GitHub.FetchRepoContent(ctx, r.Title, b.FetchImages)
		if err != nil {
			return "", fmt.Errorf("fetching repository content: %w", err)
		}
		return b.Projects.Run(ctx, RepoContent(r, fetched), fetched.Images, progress)

	default:
		fetcher := b.HuggingFace
		id := r.Title
		if r.Source == types.SourceModelScope {
			fetcher = b.ModelScope
			id = modelPath(r)
		}
		fetched, err := fetcher.FetchModelContent(ctx, id)
		if err != nil {
			return "", fmt.Errorf("fetching model content: %w", err)
		}
		return b.Projects.Run(ctx, ModelContent(r, fetched), nil, progress)
	}
}

// modelPath derives the "namespace/name" model path from the entry URL,
// falling back to the title.
func modelPath(r types.SearchResult) string {
	if _, after, ok := strings.Cut(r.URL, "/models/"); ok && after != "" {
		return after
	}
	return r.Title
}

// report is the YAML shape written per analyzed item.
type report struct {
	Title      string `yaml:"title"`
	URL        string `yaml:"url"`
	Source     string `yaml:"source"`
	AnalyzedAt string `yaml:"analyzed_at"`
	Report     string `yaml:"report"`
}

// writeReport persists one item's report into ReportDir.
func (b *Batch) writeReport(r types.SearchResult, text string) error {
	data, err := yaml.Marshal(report{
		Title:      r.Title,
		URL:        r.URL,
		Source:     string(r.Source),
		AnalyzedAt: time.Now().Format(time.RFC3339),
		Report:     text,
	})
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	path := filepath.Join(b.ReportDir, reportFilename(r.Title))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// reportFilename turns a result title into a safe file name.
func reportFilename(title string) string {
	name := strings.Map(func(c rune) rune {
		switch c {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return c
	}, title)
	return clip(name, 80) + ".yaml"
}
