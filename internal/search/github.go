// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// githubAPIBase is the GitHub REST API root. Var for test substitution.
var githubAPIBase = "https://api.github.com"

// githubPageSize is the search page size.
const githubPageSize = 30

// GitHubBackend queries the GitHub repository search API.
type GitHubBackend struct {
	Client    *http.Client
	Token     string
	UserAgent string
}

// Source returns the backend's source tag.
func (b *GitHubBackend) Source() types.Source { return types.SourceGitHub }

// Search finds repositories matching the query that were pushed inside
// [from, to], sorted by stars, up to max results.
func (b *GitHubBackend) Search(ctx context.Context, query string, from, to time.Time, max int) ([]types.SearchResult, error) {
	if max <= 0 {
		max = otherPerKeyword
	}
	q := fmt.Sprintf("%s pushed:%s..%s", query, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var results []types.SearchResult
	for page := 1; len(results) < max; page++ {
		params := url.Values{}
		params.Set("q", q)
		params.Set("sort", "stars")
		params.Set("order", "desc")
		params.Set("per_page", fmt.Sprint(githubPageSize))
		params.Set("page", fmt.Sprint(page))

		var body struct {
			Items []githubRepo `json:"items"`
		}
		if err := b.getJSON(ctx, "/search/repositories?"+params.Encode(), &body); err != nil {
			return nil, err
		}
		if len(body.Items) == 0 {
			break
		}

		for _, repo := range body.Items {
			results = append(results, repo.toResult())
			if len(results) >= max {
				break
			}
		}
		if len(body.Items) < githubPageSize {
			break
		}
	}
	return results, nil
}

// RepoContent is the repository material assembled for deep analysis.
type RepoContent struct {
	Readme    string
	Structure []string
	KeyFiles  []KeyFile
	Images    []types.ImageRef
}

// KeyFile is one source or documentation file worth showing the model.
type KeyFile struct {
	Name    string
	Content string
}

// Limits on how much repository material is fetched.
const (
	repoScanDepth   = 2
	repoKeyFileMax  = 10
	repoKeyFileSize = 50000
	repoKeyFileClip = 8000
	repoImageMax    = 3
)

// keyFileExts are the file extensions fetched as key files.
var keyFileExts = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".java": true, ".go": true,
	".rs": true, ".cpp": true, ".c": true, ".h": true,
	".md": true, ".rst": true, ".txt": true,
}

// readmeImagePattern finds Markdown image links in a README.
var readmeImagePattern = regexp.MustCompile(`!\[[^\]]*\]\((https?://[^)\s]+\.(?:png|jpg|jpeg|gif))\)`)

// FetchRepoContent gathers a repository's README, a shallow structure
// listing, and up to ten key files. When withImages is set, image links
// found in the README are returned as references for the vision stage.
// Individual fetch failures inside the scan are tolerated.
func (b *GitHubBackend) FetchRepoContent(ctx context.Context, fullName string, withImages bool) (*RepoContent, error) {
	content := &RepoContent{}

	var readme struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := b.getJSON(ctx, "/repos/"+fullName+"/readme", &readme); err == nil {
		if decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(readme.Content, "\n", "")); err == nil {
			content.Readme = string(decoded)
		}
	}

	b.scanDir(ctx, fullName, "", 0, content)

	if withImages {
		for _, m := range readmeImagePattern.FindAllStringSubmatch(content.Readme, -1) {
			content.Images = append(content.Images, types.ImageRef{URL: m[1]})
			if len(content.Images) >= repoImageMax {
				break
			}
		}
	}
	return content, nil
}

// scanDir walks the repository tree up to repoScanDepth, recording the
// structure and collecting key files.
func (b *GitHubBackend) scanDir(ctx context.Context, fullName, path string, depth int, content *RepoContent) {
	if depth > repoScanDepth {
		return
	}

	var entries []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Type string `json:"type"`
		Size int    `json:"size"`
	}
	if err := b.getJSON(ctx, "/repos/"+fullName+"/contents/"+path, &entries); err != nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	for _, entry := range entries {
		switch entry.Type {
		case "dir":
			if strings.HasPrefix(entry.Name, ".") {
				continue
			}
			content.Structure = append(content.Structure, indent+entry.Name+"/")
			b.scanDir(ctx, fullName, entry.Path, depth+1, content)
		case "file":
			content.Structure = append(content.Structure, indent+entry.Name)
			if len(content.KeyFiles) >= repoKeyFileMax || entry.Size >= repoKeyFileSize {
				continue
			}
			if !isKeyFile(entry.Name) {
				continue
			}
			if text, err := b.fetchFile(ctx, fullName, entry.Path); err == nil {
				if len(text) > repoKeyFileClip {
					text = text[:repoKeyFileClip]
				}
				content.KeyFiles = append(content.KeyFiles, KeyFile{Name: entry.Path, Content: text})
			}
		}
	}
}

// isKeyFile reports whether the file is worth fetching for analysis.
func isKeyFile(name string) bool {
	switch name {
	case "setup.py", "requirements.txt", "package.json", "go.mod", "Cargo.toml":
		return true
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return keyFileExts[name[i:]]
	}
	return false
}

// fetchFile downloads and decodes one file's contents.
func (b *GitHubBackend) fetchFile(ctx context.Context, fullName, path string) (string, error) {
	var file struct {
		Content string `json:"content"`
	}
	if err := b.getJSON(ctx, "/repos/"+fullName+"/contents/"+path, &file); err != nil {
		return "", err
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return string(decoded), nil
}

// getJSON performs an authenticated GET with 429-aware retry and decodes
// the JSON response into out.
func (b *GitHubBackend) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubAPIBase+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", b.UserAgent)
	if b.Token != "" {
		req.Header.Set("Authorization", "Bearer "+b.Token)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("GitHub API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API returned HTTP %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing GitHub response: %w", err)
	}
	return nil
}

// githubRepo is the slice of the search payload the record needs.
type githubRepo struct {
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Stars       int      `json:"stargazers_count"`
	Language    string   `json:"language"`
	UpdatedAt   string   `json:"updated_at"`
	Topics      []string `json:"topics"`
}

func (r githubRepo) toResult() types.SearchResult {
	updated := r.UpdatedAt
	if t, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
		updated = t.Format("2006-01-02")
	}
	return types.SearchResult{
		Title:       r.FullName,
		Description: r.Description,
		URL:         r.HTMLURL,
		Stars:       r.Stars,
		Language:    r.Language,
		Updated:     updated,
		Topics:      r.Topics,
		Source:      types.SourceGitHub,
	}
}
