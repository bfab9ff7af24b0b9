// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls an OpenAI-compatible chat completion endpoint and
// transparently resumes responses that were cut off by the provider's
// output-length limit.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Finish reasons reported by the chat endpoint. The distinction between a
// natural stop and a length-limited stop drives the continuation loop.
const (
	FinishStop   = "stop"
	FinishLength = "length"
)

// ChatRequest is one chat completion request.
type ChatRequest struct {
	Model       string          `json:"model"`
	Messages    []types.Message `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// Completion is the slice of a chat response the pipelines consume: the
// generated text and why generation stopped.
type Completion struct {
	Text         string
	FinishReason string
}

// Truncated reports whether the response hit the output-length limit.
func (c Completion) Truncated() bool {
	return c.FinishReason == FinishLength
}

// Client issues a single chat completion call. Implementations must not
// retry on their own; the continuation loop in Caller is the only retry
// policy in this layer.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (Completion, error)
}

// chatCompletionsPath is appended to the configured base URL.
const chatCompletionsPath = "/chat/completions"

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// chatResponse is the wire shape of a chat completion response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete posts the request and returns the first choice's text and
// finish reason. Transport and provider errors are returned as-is.
func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (Completion, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Completion{}, fmt.Errorf("marshaling chat request: %w", err)
	}

	url := strings.TrimSuffix(c.BaseURL, "/") + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Completion{}, fmt.Errorf("calling chat endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return Completion{}, fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(msg))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Completion{}, fmt.Errorf("decoding chat response: %w", err)
	}
	if cr.Error != nil {
		return Completion{}, fmt.Errorf("chat endpoint error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return Completion{}, fmt.Errorf("chat endpoint returned no choices")
	}

	choice := cr.Choices[0]
	return Completion{Text: choice.Message.Content, FinishReason: choice.FinishReason}, nil
}
