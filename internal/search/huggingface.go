// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// huggingfaceAPIBase is the Hugging Face Hub API root. Var for test
// substitution.
var huggingfaceAPIBase = "https://huggingface.co"

// HuggingFaceBackend queries the Hugging Face model hub.
type HuggingFaceBackend struct {
	Client    *http.Client
	UserAgent string
}

// Source returns the backend's source tag.
func (b *HuggingFaceBackend) Source() types.Source { return types.SourceHuggingFace }

// hfModel is the slice of the hub payload the record needs.
type hfModel struct {
	ID           string   `json:"id"`
	Downloads    int      `json:"downloads"`
	Likes        int      `json:"likes"`
	Tags         []string `json:"tags"`
	PipelineTag  string   `json:"pipeline_tag"`
	LastModified string   `json:"lastModified"`
}

// Search finds models matching the query, sorted by downloads, keeping
// entries last modified inside [from, to], up to max results.
func (b *HuggingFaceBackend) Search(ctx context.Context, query string, from, to time.Time, max int) ([]types.SearchResult, error) {
	if max <= 0 {
		max = otherPerKeyword
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("sort", "downloads")
	params.Set("direction", "-1")
	params.Set("limit", fmt.Sprint(max*2))

	var models []hfModel
	if err := b.getJSON(ctx, "/api/models?"+params.Encode(), &models); err != nil {
		return nil, err
	}

	var results []types.SearchResult
	for _, m := range models {
		modified, err := time.Parse(time.RFC3339, m.LastModified)
		if err == nil && (modified.Before(from) || modified.After(to)) {
			continue
		}
		results = append(results, types.SearchResult{
			Title:       m.ID,
			URL:         huggingfaceAPIBase + "/" + m.ID,
			Description: m.PipelineTag,
			Downloads:   m.Downloads,
			Likes:       m.Likes,
			Tags:        m.Tags,
			Updated:     m.LastModified,
			Source:      types.SourceHuggingFace,
		})
		if len(results) >= max {
			break
		}
	}
	return results, nil
}

// ModelContent is the model-card material assembled for deep analysis.
type ModelContent struct {
	Info   string
	Readme string
	Files  []string
}

// modelFileMax caps the file listing shown to the model.
const modelFileMax = 30

// FetchModelContent gathers a model's metadata, card README, and file
// listing. A missing README is not an error.
func (b *HuggingFaceBackend) FetchModelContent(ctx context.Context, modelID string) (*ModelContent, error) {
	var detail struct {
		ID          string   `json:"id"`
		Downloads   int      `json:"downloads"`
		Likes       int      `json:"likes"`
		PipelineTag string   `json:"pipeline_tag"`
		Tags        []string `json:"tags"`
		Siblings    []struct {
			Filename string `json:"rfilename"`
		} `json:"siblings"`
	}
	if err := b.getJSON(ctx, "/api/models/"+modelID, &detail); err != nil {
		return nil, err
	}

	content := &ModelContent{
		Info: fmt.Sprintf("Task: %s\nDownloads: %d\nLikes: %d\nTags: %s",
			detail.PipelineTag, detail.Downloads, detail.Likes, strings.Join(detail.Tags, ", ")),
	}
	for _, s := range detail.Siblings {
		content.Files = append(content.Files, s.Filename)
		if len(content.Files) >= modelFileMax {
			break
		}
	}

	if readme, err := b.getText(ctx, "/"+modelID+"/raw/main/README.md"); err == nil {
		content.Readme = readme
	}
	return content, nil
}

// getJSON performs a GET with 429-aware retry and decodes JSON into out.
func (b *HuggingFaceBackend) getJSON(ctx context.Context, path string, out any) error {
	resp, err := b.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Hugging Face API returned HTTP %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Hugging Face response: %w", err)
	}
	return nil
}

// getText performs a GET and returns the body as text.
func (b *HuggingFaceBackend) getText(ctx context.Context, path string) (string, error) {
	resp, err := b.get(ctx, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Hugging Face returned HTTP %d for %s", resp.StatusCode, path)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (b *HuggingFaceBackend) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, huggingfaceAPIBase+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Hugging Face request: %w", err)
	}
	return resp, nil
}
