// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// modelscopeAPIBase is the ModelScope API root. Var for test substitution.
var modelscopeAPIBase = "https://modelscope.cn/api/v1"

// modelscopeSiteBase is the public site root used to build entry URLs.
var modelscopeSiteBase = "https://modelscope.cn/models"

// ModelScopeBackend queries the ModelScope model hub.
type ModelScopeBackend struct {
	Client    *http.Client
	UserAgent string
}

// Source returns the backend's source tag.
func (b *ModelScopeBackend) Source() types.Source { return types.SourceModelScope }

// msModel is the slice of the hub payload the record needs.
type msModel struct {
	Name        string   `json:"Name"`
	Path        string   `json:"Path"`
	ChineseName string   `json:"ChineseName"`
	Description string   `json:"Description"`
	Downloads   int      `json:"Downloads"`
	Stars       int      `json:"Stars"`
	Tags        []string `json:"Tags"`
	LastUpdated int64    `json:"LastUpdatedTime"`
}

// msEnvelope is the common ModelScope response wrapper.
type msEnvelope struct {
	Code int             `json:"Code"`
	Data json.RawMessage `json:"Data"`
}

// Search finds models matching the query, keeping entries updated inside
// [from, to], up to max results.
func (b *ModelScopeBackend) Search(ctx context.Context, query string, from, to time.Time, max int) ([]types.SearchResult, error) {
	if max <= 0 {
		max = otherPerKeyword
	}

	params := url.Values{}
	params.Set("Search", query)
	params.Set("PageSize", fmt.Sprint(max*2))
	params.Set("PageNumber", "1")
	params.Set("SortBy", "Downloads")

	var data struct {
		Models []msModel `json:"Models"`
	}
	if err := b.getJSON(ctx, "/models?"+params.Encode(), &data); err != nil {
		return nil, err
	}

	var results []types.SearchResult
	for _, m := range data.Models {
		updated := time.Unix(m.LastUpdated, 0)
		if m.LastUpdated > 0 && (updated.Before(from) || updated.After(to)) {
			continue
		}

		title := m.Name
		if m.Path != "" {
			title = m.Path + "/" + m.Name
		}
		results = append(results, types.SearchResult{
			Title:       title,
			URL:         modelscopeSiteBase + "/" + title,
			Description: m.Description,
			Downloads:   m.Downloads,
			Likes:       m.Stars,
			Tags:        m.Tags,
			Updated:     updated.Format("2006-01-02"),
			Source:      types.SourceModelScope,
		})
		if len(results) >= max {
			break
		}
	}
	return results, nil
}

// FetchModelContent gathers a model's metadata, card README, and file
// listing from ModelScope. modelPath is "namespace/name".
func (b *ModelScopeBackend) FetchModelContent(ctx context.Context, modelPath string) (*ModelContent, error) {
	var detail struct {
		Name        string   `json:"Name"`
		Description string   `json:"Description"`
		Downloads   int      `json:"Downloads"`
		Stars       int      `json:"Stars"`
		Tags        []string `json:"Tags"`
		ReadMe      string   `json:"ReadMeContent"`
	}
	if err := b.getJSON(ctx, "/models/"+modelPath, &detail); err != nil {
		return nil, err
	}

	content := &ModelContent{
		Info: fmt.Sprintf("Description: %s\nDownloads: %d\nLikes: %d\nTags: %s",
			detail.Description, detail.Downloads, detail.Stars, strings.Join(detail.Tags, ", ")),
		Readme: detail.ReadMe,
	}

	var files struct {
		Files []struct {
			Path string `json:"Path"`
		} `json:"Files"`
	}
	if err := b.getJSON(ctx, "/models/"+modelPath+"/repo/files", &files); err == nil {
		for _, f := range files.Files {
			content.Files = append(content.Files, f.Path)
			if len(content.Files) >= modelFileMax {
				break
			}
		}
	}
	return content, nil
}

// getJSON performs a GET with 429-aware retry, unwraps the ModelScope
// envelope, and decodes Data into out.
func (b *ModelScopeBackend) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelscopeAPIBase+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("ModelScope request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ModelScope API returned HTTP %d for %s", resp.StatusCode, path)
	}

	var envelope msEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("parsing ModelScope response: %w", err)
	}
	if envelope.Code != 200 {
		return fmt.Errorf("ModelScope API returned code %d for %s", envelope.Code, path)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("parsing ModelScope data: %w", err)
	}
	return nil
}
