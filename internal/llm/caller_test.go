// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// scriptClient replays a fixed sequence of completions and records every
// request it receives.
type scriptClient struct {
	script   []Completion
	err      error
	requests []ChatRequest
}

func (s *scriptClient) Complete(_ context.Context, req ChatRequest) (Completion, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return Completion{}, s.err
	}
	i := len(s.requests) - 1
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	return s.script[i], nil
}

func lengthLimited(text string) Completion {
	return Completion{Text: text, FinishReason: FinishLength}
}

func natural(text string) Completion {
	return Completion{Text: text, FinishReason: FinishStop}
}

func TestDoConcatenatesContinuations(t *testing.T) {
	tests := []struct {
		name        string
		script      []Completion
		maxAttempts int
		want        string
		wantCalls   int
	}{
		{
			name:        "single natural stop",
			script:      []Completion{natural("done")},
			maxAttempts: 3,
			want:        "done",
			wantCalls:   1,
		},
		{
			name:        "two truncations then stop",
			script:      []Completion{lengthLimited("part1 "), lengthLimited("part2 "), natural("part3")},
			maxAttempts: 3,
			want:        "part1 part2 part3",
			wantCalls:   3,
		},
		{
			name:        "attempts exhausted mid-truncation",
			script:      []Completion{lengthLimited("a"), lengthLimited("b"), lengthLimited("c"), natural("d")},
			maxAttempts: 3,
			want:        "abc",
			wantCalls:   3,
		},
		{
			name:        "zero max attempts falls back to default",
			script:      []Completion{natural("ok")},
			maxAttempts: 0,
			want:        "ok",
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scriptClient{script: tt.script}
			caller := NewCaller(client, "gpt-4o")
			caller.MaxAttempts = tt.maxAttempts

			got, err := caller.Do(context.Background(), Ask{System: "sys", Content: "question"})
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Do() = %q, want %q", got, tt.want)
			}
			if len(client.requests) != tt.wantCalls {
				t.Errorf("calls = %d, want %d", len(client.requests), tt.wantCalls)
			}
		})
	}
}

func TestDoAppendsContinueTurns(t *testing.T) {
	client := &scriptClient{script: []Completion{lengthLimited("half"), natural("rest")}}
	caller := NewCaller(client, "gpt-4o")

	if _, err := caller.Do(context.Background(), Ask{System: "sys", Content: "q"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	// Second request must carry the partial assistant turn and the
	// synthetic continue request.
	second := client.requests[1].Messages
	if len(second) != 4 {
		t.Fatalf("second request has %d messages, want 4", len(second))
	}
	if second[2].Role != types.RoleAssistant || second[2].Text != "half" {
		t.Errorf("assistant turn = %+v, want partial text", second[2])
	}
	if second[3].Role != types.RoleUser || !strings.Contains(second[3].Text, "Continue") {
		t.Errorf("continue turn = %+v", second[3])
	}
}

func TestDoImagesGateOnVision(t *testing.T) {
	images := []types.ImageRef{{URL: "data:image/png;base64,AAAA"}}

	client := &scriptClient{script: []Completion{natural("ok")}}
	caller := NewCaller(client, "gpt-4o")

	if _, err := caller.Do(context.Background(), Ask{System: "s", Content: "c", Images: images, Vision: true}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	user := client.requests[0].Messages[1]
	if len(user.Parts) != 2 {
		t.Errorf("vision user turn has %d parts, want text + image", len(user.Parts))
	}

	client = &scriptClient{script: []Completion{natural("ok")}}
	caller = NewCaller(client, "gpt-3.5-turbo")

	if _, err := caller.Do(context.Background(), Ask{System: "s", Content: "c", Images: images, Vision: false}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	user = client.requests[0].Messages[1]
	if len(user.Parts) != 0 {
		t.Errorf("non-vision user turn carries %d parts, images should be dropped", len(user.Parts))
	}
}

func TestDoPropagatesErrors(t *testing.T) {
	wantErr := errors.New("boom")
	client := &scriptClient{err: wantErr}
	caller := NewCaller(client, "gpt-4o")

	_, err := caller.Do(context.Background(), Ask{System: "s", Content: "c"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Do() error = %v, want %v", err, wantErr)
	}
	if len(client.requests) != 1 {
		t.Errorf("calls = %d, errors must not be retried", len(client.requests))
	}
}
