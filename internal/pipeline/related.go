// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/research-assistant/internal/agent"
	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Related-work bounds: how far back the search reaches, how many terms
// are searched, how many results each term may yield, and the clip sizes
// for the candidate digests handed to the comparison stages.
const (
	relatedWindow      = 1095 * 24 * time.Hour // 3 years
	relatedMaxTerms    = 3
	relatedPerTerm     = 10
	relatedCandidates  = 20
	relatedExcerptSize = 300
	relatedCompareClip = 8000
	relatedListClip    = 5000
)

// NoRelatedResults is returned verbatim when the search yields nothing;
// no further model calls are made in that case.
const NoRelatedResults = "No related papers were found. Try different search keywords."

// RelatedWork discovers and compares work related to one paper: keyword
// extraction, a bounded arXiv search, relevance filtering, and two
// comparison stages feeding a final report.
type RelatedWork struct {
	brain      *agent.Agent
	tech       *agent.Agent
	experiment *agent.Agent
	arxiv      search.Backend
}

// NewRelatedWork builds the related-work pipeline around the caller and
// an arXiv search backend.
func NewRelatedWork(caller *llm.Caller, arxiv search.Backend) *RelatedWork {
	return &RelatedWork{
		brain:      agent.New(caller, "the coordinator", relatedBrainRole),
		tech:       agent.New(caller, "the framework analyst", techCompareRole),
		experiment: agent.New(caller, "the experiment analyst", expCompareRole),
		arxiv:      arxiv,
	}
}

// Run produces the related-work report for the paper description in
// paperInfo (title plus abstract). Per-term search failures are ignored;
// an entirely empty result set short-circuits to NoRelatedResults.
func (p *RelatedWork) Run(ctx context.Context, paperInfo string, progress Progress) (string, error) {
	if progress == nil {
		progress = func(string) {}
	}

	progress("the coordinator is extracting search keywords...")
	keywords, err := p.brain.Think(ctx, relatedKeywordPrompt, paperInfo)
	if err != nil {
		return "", fmt.Errorf("keyword stage: %w", err)
	}

	progress("searching arXiv for related papers (last 3 years)...")
	to := time.Now()
	from := to.Add(-relatedWindow)

	terms := parseSearchTerms(keywords)
	if len(terms) > relatedMaxTerms {
		terms = terms[:relatedMaxTerms]
	}
	var found []types.SearchResult
	for _, term := range terms {
		papers, err := p.arxiv.Search(ctx, term, from, to, relatedPerTerm)
		if err != nil {
			continue
		}
		found = append(found, papers...)
	}

	unique := search.DedupeByTitle(found)
	if len(unique) == 0 {
		return NoRelatedResults, nil
	}

	progress(fmt.Sprintf("the coordinator is selecting the most relevant of %d papers...", len(unique)))
	digest := candidateDigest(unique)
	filtered, err := p.brain.Think(ctx, relatedFilterPrompt,
		fmt.Sprintf("Current paper:\n%s\n\nCandidate related papers:\n%s", paperInfo, digest))
	if err != nil {
		return "", fmt.Errorf("filter stage: %w", err)
	}

	progress("the framework analyst is comparing technical approaches...")
	techAnalysis, err := p.tech.Think(ctx, relatedTechPrompt,
		fmt.Sprintf("Current paper:\n%s\n\nRelated papers:\n%s", paperInfo, clip(digest, relatedCompareClip)))
	if err != nil {
		return "", fmt.Errorf("framework comparison stage: %w", err)
	}

	progress("the experiment analyst is comparing experiments...")
	expAnalysis, err := p.experiment.Think(ctx, relatedExpPrompt,
		fmt.Sprintf("Current paper:\n%s\n\nRelated papers:\n%s", paperInfo, clip(digest, relatedCompareClip)))
	if err != nil {
		return "", fmt.Errorf("experiment comparison stage: %w", err)
	}

	progress("the coordinator is consolidating the analyses...")
	summary := fmt.Sprintf(`Current paper: %s

Keyword analysis:
%s

Selection:
%s

Technical framework comparison:
%s

Experimental comparison:
%s

Related papers found:
%s
`, paperInfo, keywords, filtered, techAnalysis, expAnalysis, clip(digest, relatedListClip))

	report, err := p.brain.Think(ctx, relatedSummaryPrompt, summary)
	if err != nil {
		return "", fmt.Errorf("summary stage: %w", err)
	}
	return report, nil
}

// candidateDigest lists the first twenty candidates with numbered titles
// and clipped abstracts, the form the filter prompt's indices refer to.
func candidateDigest(papers []types.SearchResult) string {
	if len(papers) > relatedCandidates {
		papers = papers[:relatedCandidates]
	}
	var b strings.Builder
	for i, paper := range papers {
		fmt.Fprintf(&b, "[%d] %s\nAbstract: %s...\n", i+1, paper.Title, clip(paper.Abstract, relatedExcerptSize))
	}
	return b.String()
}

// quotedTerm matches a quoted search phrase on a keyword line.
var quotedTerm = regexp.MustCompile(`["']([^"']+)["']`)

// parseSearchTerms extracts search terms from a keyword-extraction
// response. Lines cued by a keyword/search label yield their quoted
// phrases or the text after the colon; when nothing matches, plausible
// whole lines are used. At most five terms are returned.
func parseSearchTerms(response string) []string {
	var cues = []string{"keyword", "关键词", "search", "搜索"}
	var terms []string

	lines := strings.Split(response, "\n")
	for _, line := range lines {
		lower := strings.ToLower(line)
		cued := false
		for _, cue := range cues {
			if strings.Contains(lower, cue) {
				cued = true
				break
			}
		}
		if !cued {
			continue
		}

		matched := false
		for _, m := range quotedTerm.FindAllStringSubmatch(line, -1) {
			if term := strings.TrimSpace(m[1]); len(term) > 2 {
				terms = append(terms, term)
				matched = true
			}
		}
		if matched {
			continue
		}

		normalized := strings.ReplaceAll(line, "：", ":")
		if _, after, ok := strings.Cut(normalized, ":"); ok {
			if term := strings.TrimSpace(after); len(term) > 2 {
				terms = append(terms, term)
			}
		}
	}

	// Fall back to whole lines of plausible length.
	if len(terms) == 0 {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if len(line) > 5 && len(line) < 100 {
				terms = append(terms, line)
			}
		}
	}

	if len(terms) > 5 {
		terms = terms[:5]
	}
	return terms
}
