// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"strings"

	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Limits on how much fetched material flows into a single analysis.
const (
	contentReadmeClip   = 15000
	contentStructureMax = 50
	contentKeyFileMax   = 5
	contentKeyFileClip  = 3000
	contentModelFileMax = 30
)

// PaperContent renders a paper result as analysis input.
func PaperContent(r types.SearchResult) string {
	return fmt.Sprintf("Title: %s\nAbstract: %s\nAuthors: %s",
		r.Title, r.Abstract, strings.Join(r.Authors, ", "))
}

// RepoContent renders a repository result plus its fetched material as
// analysis input: description, README, a shallow structure listing, and
// the key source files.
func RepoContent(r types.SearchResult, fetched *search.RepoContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Project: %s\n## Description\n%s\n## README\n%s\n",
		r.Title, r.Description, clip(fetched.Readme, contentReadmeClip))

	structure := fetched.Structure
	if len(structure) > contentStructureMax {
		structure = structure[:contentStructureMax]
	}
	fmt.Fprintf(&b, "## Project structure\n%s\n## Key source files\n", strings.Join(structure, "\n"))

	keyFiles := fetched.KeyFiles
	if len(keyFiles) > contentKeyFileMax {
		keyFiles = keyFiles[:contentKeyFileMax]
	}
	for _, f := range keyFiles {
		fmt.Fprintf(&b, "\n### %s\n```\n%s\n```\n", f.Name, clip(f.Content, contentKeyFileClip))
	}
	return b.String()
}

// ModelContent renders a model-hub result plus its fetched card as
// analysis input.
func ModelContent(r types.SearchResult, fetched *search.ModelContent) string {
	files := fetched.Files
	if len(files) > contentModelFileMax {
		files = files[:contentModelFileMax]
	}
	return fmt.Sprintf("# Model: %s\n%s\n## README\n%s\n## Files\n%s",
		r.Title, fetched.Info, fetched.Readme, strings.Join(files, "\n"))
}
