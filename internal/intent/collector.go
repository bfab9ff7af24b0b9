// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intent gathers a user's research intent through conversation,
// derives a search strategy from it, and filters search results against
// it. Each conversation is one Collector; concurrent sessions each get
// their own through the Sessions registry.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/research-assistant/internal/agent"
	"github.com/pdiddy/research-assistant/internal/classify"
	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// DefaultMaxQuestions bounds the interview before readiness is forced.
const DefaultMaxQuestions = 3

// forcedReadyNotice is appended when the question budget runs out. It
// carries the literal readiness marker so downstream detection keeps
// working.
const forcedReadyNotice = "\n\n" + classify.ReadyMarker + " Enough information has been collected; the search can begin."

// ReplyType distinguishes another interview question from readiness.
type ReplyType string

const (
	ReplyQuestion ReplyType = "question"
	ReplyReady    ReplyType = "ready"
)

// Reply is one interviewer turn: the display message with control
// markers stripped, and a snapshot of the profile collected so far.
type Reply struct {
	Type    ReplyType
	Message string
	Profile map[string]string
}

// Collector runs one requirement-gathering conversation. It accumulates
// the transcript and the extracted profile; it is not safe for
// concurrent use and must not be shared across sessions.
type Collector struct {
	interviewer *agent.Agent
	brain       *agent.Agent
	classifier  classify.Classifier

	maxQuestions int
	rounds       int
	history      []types.Message
	profile      map[string]string
}

// NewCollector builds a collector around the caller. maxQuestions <= 0
// selects the default.
func NewCollector(caller *llm.Caller, maxQuestions int) *Collector {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	return &Collector{
		interviewer: agent.New(caller, "the interviewer",
			"responsible for understanding the user's research needs and background through friendly conversation"),
		brain: agent.New(caller, "the coordinator",
			"responsible for analyzing user intent, building the search strategy, and filtering results"),
		classifier:   classify.Markers{},
		maxQuestions: maxQuestions,
		profile:      make(map[string]string),
	}
}

// NextQuestion advances the interview by one round. A non-empty input is
// recorded as the user's answer first. Profile updates embedded in the
// response are merged last-value-wins, and readiness is forced once the
// question budget is spent.
func (c *Collector) NextQuestion(ctx context.Context, input string) (Reply, error) {
	if input != "" {
		c.history = append(c.history, types.TextMessage(types.RoleUser, input))
	}

	profileJSON, err := json.Marshal(c.profile)
	if err != nil {
		return Reply{}, fmt.Errorf("encoding profile: %w", err)
	}
	content := fmt.Sprintf("Conversation so far:\n%s\n\nCollected profile:\n%s",
		c.transcript(), profileJSON)

	response, err := c.interviewer.Think(ctx, interviewPrompt, content)
	if err != nil {
		return Reply{}, fmt.Errorf("interview round: %w", err)
	}
	c.history = append(c.history, types.TextMessage(types.RoleAssistant, response))
	c.rounds++

	for key, value := range c.classifier.Updates(response) {
		c.profile[key] = value
	}

	ready := c.classifier.Ready(response)
	if !ready && c.rounds >= c.maxQuestions {
		response += forcedReadyNotice
		ready = true
	}

	reply := Reply{
		Type:    ReplyQuestion,
		Message: c.classifier.StripMarkers(response),
		Profile: c.profileSnapshot(),
	}
	if ready {
		reply.Type = ReplyReady
	}
	return reply, nil
}

// BuildStrategy derives the search strategy from the collected profile.
// Anything the planning response leaves unparseable keeps the documented
// defaults.
func (c *Collector) BuildStrategy(ctx context.Context) (types.SearchStrategy, error) {
	profileJSON, err := json.MarshalIndent(c.profile, "", "  ")
	if err != nil {
		return types.SearchStrategy{}, fmt.Errorf("encoding profile: %w", err)
	}

	response, err := c.brain.Think(ctx, strategyPrompt, "User profile:\n"+string(profileJSON))
	if err != nil {
		return types.SearchStrategy{}, fmt.Errorf("strategy planning: %w", err)
	}
	return c.classifier.Strategy(response), nil
}

// Filter bounds for the relevance pass.
const (
	filterCandidateMax = 30
	filterExcerptSize  = 200
)

// FilterResults partitions the results into those matching the collected
// intent and the rest, preserving input order in both. When the model
// names no matches the matched set is empty and the caller decides the
// fallback.
func (c *Collector) FilterResults(ctx context.Context, results []types.SearchResult) (matched, unmatched []types.SearchResult, err error) {
	if len(results) == 0 {
		return nil, nil, nil
	}

	candidates := results
	if len(candidates) > filterCandidateMax {
		candidates = candidates[:filterCandidateMax]
	}
	var digest strings.Builder
	for i, r := range candidates {
		fmt.Fprintf(&digest, "[%d] %s\nExcerpt: %s...\n", i+1, r.Title, clip(r.Excerpt(), filterExcerptSize))
	}

	response, err := c.brain.Think(ctx, filterPrompt,
		fmt.Sprintf("User intent:\n%s\n\nSearch results:\n%s", c.intentText(), digest.String()))
	if err != nil {
		return nil, nil, fmt.Errorf("filtering results: %w", err)
	}

	picked := make(map[int]bool)
	for _, idx := range c.classifier.FilterIndices(response, len(results)) {
		picked[idx] = true
	}
	for i, r := range results {
		if picked[i] {
			matched = append(matched, r)
		} else {
			unmatched = append(unmatched, r)
		}
	}
	return matched, unmatched, nil
}

// Reset clears the transcript, the profile, and the question counter.
func (c *Collector) Reset() {
	c.history = nil
	c.rounds = 0
	c.profile = make(map[string]string)
}

// Profile returns a snapshot of the collected profile.
func (c *Collector) Profile() map[string]string {
	return c.profileSnapshot()
}

func (c *Collector) profileSnapshot() map[string]string {
	snapshot := make(map[string]string, len(c.profile))
	for k, v := range c.profile {
		snapshot[k] = v
	}
	return snapshot
}

// transcript renders the conversation for the interview prompt.
func (c *Collector) transcript() string {
	var b strings.Builder
	for _, m := range c.history {
		speaker := "Assistant"
		if m.Role == types.RoleUser {
			speaker = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, m.Text)
	}
	return b.String()
}

// intentText renders the profile as sorted key: value lines.
func (c *Collector) intentText() string {
	keys := make([]string, 0, len(c.profile))
	for k := range c.profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, c.profile[k])
	}
	return b.String()
}

// clip truncates s to at most n bytes without splitting a UTF-8 rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
