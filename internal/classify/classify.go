// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify extracts control signals from model-generated natural
// language: readiness markers, profile-update blocks, repair triggers,
// strategy lines, and bracketed result indices. The markers are literal
// strings the prompts instruct the model to emit; parsing is therefore
// best-effort and a miss always degrades to "no information extracted",
// never to an error.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Literal markers shared with the prompt templates. The CJK forms are
// kept for compatibility with the deployed prompt set; detection accepts
// either script.
const (
	ReadyMarker    = "【搜索就绪】"
	ReadyMarkerEN  = "【READY】"
	UpdateOpen     = "【更新】"
	UpdateClose    = "【/更新】"
	RepairMarker   = "需要改进"
	RedoMarker     = "返工"
	fullWidthColon = "："
)

// bracketIndex matches a one-based candidate reference like "[3]".
var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// Classifier isolates the fragile substring-driven control flow so it
// can be swapped or tested independently of the pipelines.
type Classifier interface {
	// Ready reports whether the response declares the search-ready state.
	Ready(response string) bool

	// NeedsRepair reports whether a reflection response asks for a
	// repair pass.
	NeedsRepair(response string) bool

	// Updates extracts the key/value lines of an update block. Malformed
	// lines are skipped; a missing block yields an empty map.
	Updates(response string) map[string]string

	// StripMarkers removes the update block and readiness markers,
	// leaving only display text.
	StripMarkers(response string) string

	// FilterIndices extracts zero-based candidate indices from lines that
	// mark matches. Indices outside [0, n) are dropped.
	FilterIndices(response string, n int) []int

	// Strategy parses labeled strategy lines, falling back to the
	// documented defaults for anything absent or unparseable.
	Strategy(response string) types.SearchStrategy
}

// Markers is the production Classifier over the literal marker set.
type Markers struct{}

// Ready reports whether either readiness marker is present.
func (Markers) Ready(response string) bool {
	return strings.Contains(response, ReadyMarker) || strings.Contains(response, ReadyMarkerEN)
}

// NeedsRepair reports whether the reflection contains either repair
// phrase.
func (Markers) NeedsRepair(response string) bool {
	return strings.Contains(response, RepairMarker) || strings.Contains(response, RedoMarker)
}

// Updates parses the block delimited by the update markers. The closing
// marker is optional; the block then runs to the end of the response.
// Each line is a "key: value" pair with an ASCII or full-width colon;
// later values overwrite earlier ones for the same key.
func (Markers) Updates(response string) map[string]string {
	updates := make(map[string]string)

	start := strings.Index(response, UpdateOpen)
	if start < 0 {
		return updates
	}
	block := response[start+len(UpdateOpen):]
	if end := strings.Index(block, UpdateClose); end >= 0 {
		block = block[:end]
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.ReplaceAll(line, fullWidthColon, ":")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		updates[key] = strings.TrimSpace(value)
	}
	return updates
}

// StripMarkers removes the update block (delimiters included) and the
// readiness markers, then trims whitespace.
func (Markers) StripMarkers(response string) string {
	if start := strings.Index(response, UpdateOpen); start >= 0 {
		rest := response[start+len(UpdateOpen):]
		if end := strings.Index(rest, UpdateClose); end >= 0 {
			response = response[:start] + rest[end+len(UpdateClose):]
		} else {
			response = response[:start]
		}
	}
	response = strings.ReplaceAll(response, ReadyMarker, "")
	response = strings.ReplaceAll(response, ReadyMarkerEN, "")
	return strings.TrimSpace(response)
}

// matchCues mark a line as listing matched candidates.
var matchCues = []string{"匹配", "相关", "推荐", "match", "relevant", "recommend"}

// FilterIndices scans match lines for bracketed one-based references and
// returns the corresponding zero-based indices in first-seen order.
// Out-of-range or unparseable references are ignored.
func (Markers) FilterIndices(response string, n int) []int {
	seen := make(map[int]bool)
	var indices []int

	for _, line := range strings.Split(response, "\n") {
		lower := strings.ToLower(line)
		cued := false
		for _, cue := range matchCues {
			if strings.Contains(lower, cue) {
				cued = true
				break
			}
		}
		if !cued {
			continue
		}
		for _, m := range bracketIndex.FindAllStringSubmatch(line, -1) {
			num, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			idx := num - 1
			if idx < 0 || idx >= n || seen[idx] {
				continue
			}
			seen[idx] = true
			indices = append(indices, idx)
		}
	}
	return indices
}

// Strategy line labels, either script.
var (
	keywordLabels = []string{"关键词", "keyword"}
	timeLabels    = []string{"时间", "time range", "time_range"}
	targetLabels  = []string{"目标数量", "target count", "target_count"}
)

// Strategy extracts keywords, time range, and target count from labeled
// lines of a planning response. Absent or unparseable fields keep the
// documented defaults (past_year, all sources, 20 results).
func (Markers) Strategy(response string) types.SearchStrategy {
	strategy := types.DefaultStrategy()

	for _, line := range strings.Split(response, "\n") {
		line = strings.ReplaceAll(line, fullWidthColon, ":")
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.ToLower(label)
		value = strings.TrimSpace(value)

		switch {
		case hasAnyLabel(label, keywordLabels):
			if kws := splitKeywords(value); len(kws) > 0 {
				strategy.Keywords = kws
			}
		case hasAnyLabel(label, timeLabels):
			if tr := types.TimeRange(strings.ToLower(value)); tr.Valid() {
				strategy.TimeRange = tr
			}
		case hasAnyLabel(label, targetLabels):
			if count := digits(value); count >= 1 {
				strategy.TargetCount = count
			}
		}
	}
	return strategy
}

func hasAnyLabel(label string, labels []string) bool {
	for _, l := range labels {
		if strings.Contains(label, l) {
			return true
		}
	}
	return false
}

// splitKeywords splits a comma-separated keyword list, tolerating
// full-width commas and surrounding quotes.
func splitKeywords(value string) []string {
	value = strings.ReplaceAll(value, "，", ",")
	var keywords []string
	for _, part := range strings.Split(value, ",") {
		kw := strings.Trim(strings.TrimSpace(part), `"'`)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// digits concatenates the decimal digits of s and parses them, so that
// "20 results" and "约20篇" both yield 20.
func digits(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
