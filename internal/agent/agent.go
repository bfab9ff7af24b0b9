// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent binds a persona (name, role, vision capability) to the
// continuation-aware chat caller. Agents are stateless across calls
// except for the history they are handed.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// multimodalModels is the allow-list of model-name substrings whose
// owners accept inline image parts. Matched case-insensitively.
var multimodalModels = []string{
	"gpt-4-vision", "gpt-4-turbo", "gpt-4o", "gpt-4o-mini",
	"claude-3-opus", "claude-3-sonnet", "claude-3-haiku", "claude-3.5-sonnet", "claude-3-5-sonnet",
	"gemini-pro-vision", "gemini-1.5-pro", "gemini-1.5-flash", "gemini-2",
}

// IsMultimodal reports whether the model name matches the vision
// allow-list.
func IsMultimodal(model string) bool {
	lower := strings.ToLower(model)
	for _, m := range multimodalModels {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Agent is a persona-bound caller of the language model, scoped to one
// role (e.g. reviewer, architecture analyst).
type Agent struct {
	Name   string
	Role   string
	Vision bool

	caller *llm.Caller
}

// New builds an agent around the caller. Vision is derived from the
// caller's model name.
func New(caller *llm.Caller, name, role string) *Agent {
	return &Agent{
		Name:   name,
		Role:   role,
		Vision: IsMultimodal(caller.Model),
		caller: caller,
	}
}

// ThinkOption adjusts a single Think call.
type ThinkOption func(*llm.Ask)

// WithHistory prepends prior conversation turns to the call.
func WithHistory(history []types.Message) ThinkOption {
	return func(a *llm.Ask) { a.History = history }
}

// WithImages attaches image references to the user turn. They are
// silently dropped when the model lacks vision support.
func WithImages(images []types.ImageRef) ThinkOption {
	return func(a *llm.Ask) { a.Images = images }
}

// Think sends one persona-prefixed ask and returns the full response
// text, truncation-recovered. Errors from the chat endpoint propagate
// uncaught.
func (a *Agent) Think(ctx context.Context, prompt, content string, opts ...ThinkOption) (string, error) {
	ask := llm.Ask{
		System:  fmt.Sprintf("You are %s, %s\n\n%s", a.Name, a.Role, prompt),
		Content: content,
		Vision:  a.Vision,
	}
	for _, opt := range opts {
		opt(&ask)
	}
	return a.caller.Do(ctx, ask)
}
