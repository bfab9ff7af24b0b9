// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// continuePrompt is the synthetic user turn sent after a length-limited
// stop. It asks the model to resume without repeating earlier output.
const continuePrompt = "Continue from exactly where you left off. Do not repeat content you have already produced."

// Default knobs for analytical calls.
const (
	DefaultTemperature = 0.3
	DefaultMaxAttempts = 3
)

// Ask is one logical question to the model: a persona/system prompt,
// optional prior history, and the user content with optional images.
type Ask struct {
	System  string
	Content string
	History []types.Message
	Images  []types.ImageRef

	// Vision marks the active model as multimodal. When false any
	// supplied images are silently dropped.
	Vision bool
}

// Caller issues one logical ask per call, resuming truncated responses
// until a natural stop or MaxAttempts completions have been consumed.
type Caller struct {
	Client      Client
	Model       string
	Temperature float64
	MaxAttempts int
}

// NewCaller builds a Caller with the default temperature and attempt cap.
func NewCaller(client Client, model string) *Caller {
	return &Caller{
		Client:      client,
		Model:       model,
		Temperature: DefaultTemperature,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Do sends the ask and returns the full response text. When the provider
// signals a length-limited stop, the partial text is kept, the partial
// assistant turn plus a continue request are appended to the message
// sequence, and another completion is issued. The returned text is the
// concatenation of every attempt's chunk in order with no separator.
// Transport and provider errors propagate unretried.
func (c *Caller) Do(ctx context.Context, ask Ask) (string, error) {
	messages := make([]types.Message, 0, len(ask.History)+2)
	messages = append(messages, types.TextMessage(types.RoleSystem, ask.System))
	messages = append(messages, ask.History...)

	if len(ask.Images) > 0 && ask.Vision {
		messages = append(messages, types.CompositeMessage(types.RoleUser, ask.Content, ask.Images))
	} else {
		messages = append(messages, types.TextMessage(types.RoleUser, ask.Content))
	}

	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var full string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		completion, err := c.Client.Complete(ctx, ChatRequest{
			Model:       c.Model,
			Messages:    messages,
			Temperature: c.Temperature,
		})
		if err != nil {
			return "", err
		}

		full += completion.Text
		if !completion.Truncated() {
			break
		}

		messages = append(messages,
			types.TextMessage(types.RoleAssistant, completion.Text),
			types.TextMessage(types.RoleUser, continuePrompt),
		)
	}

	return full, nil
}
