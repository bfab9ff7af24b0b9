// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// recordClient captures requests and answers each with a natural stop.
type recordClient struct {
	reply    string
	requests []llm.ChatRequest
}

func (r *recordClient) Complete(_ context.Context, req llm.ChatRequest) (llm.Completion, error) {
	r.requests = append(r.requests, req)
	return llm.Completion{Text: r.reply, FinishReason: llm.FinishStop}, nil
}

func TestIsMultimodal(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-4o", true},
		{"GPT-4O-MINI", true},
		{"gpt-4-turbo-2024-04-09", true},
		{"claude-3-opus-20240229", true},
		{"claude-3-5-sonnet-latest", true},
		{"gemini-1.5-flash", true},
		{"gemini-2.0-flash", true},
		{"gpt-3.5-turbo", false},
		{"deepseek-chat", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := IsMultimodal(tt.model); got != tt.want {
				t.Errorf("IsMultimodal(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestThinkBuildsPersonaSystemPrompt(t *testing.T) {
	client := &recordClient{reply: "answer"}
	a := New(llm.NewCaller(client, "gpt-4o"), "the reviewer", "a strict academic reviewer")

	got, err := a.Think(context.Background(), "Review this paper.", "paper text")
	if err != nil {
		t.Fatalf("Think() error = %v", err)
	}
	if got != "answer" {
		t.Errorf("Think() = %q", got)
	}

	system := client.requests[0].Messages[0]
	if system.Role != types.RoleSystem {
		t.Fatalf("first message role = %q, want system", system.Role)
	}
	if !strings.HasPrefix(system.Text, "You are the reviewer, a strict academic reviewer\n\n") {
		t.Errorf("system prompt missing persona prefix: %q", system.Text)
	}
	if !strings.Contains(system.Text, "Review this paper.") {
		t.Errorf("system prompt missing task instructions: %q", system.Text)
	}
}

func TestVisionAgentGating(t *testing.T) {
	client := &recordClient{reply: "diagram reading"}

	if v := NewVision(llm.NewCaller(client, "gpt-3.5-turbo")); v != nil {
		t.Fatal("NewVision() should be nil for non-multimodal models")
	}

	v := NewVision(llm.NewCaller(client, "gpt-4o"))
	if v == nil {
		t.Fatal("NewVision() = nil for multimodal model")
	}

	// No images: no call, empty result.
	got, err := v.AnalyzeImages(context.Background(), nil, "ctx")
	if err != nil || got != "" {
		t.Errorf("AnalyzeImages(nil) = (%q, %v), want empty no-op", got, err)
	}
	if len(client.requests) != 0 {
		t.Errorf("no-op analysis issued %d calls", len(client.requests))
	}

	images := []types.ImageRef{{URL: "data:image/png;base64,AA"}}
	got, err = v.AnalyzeImages(context.Background(), images, "paper excerpt")
	if err != nil {
		t.Fatalf("AnalyzeImages() error = %v", err)
	}
	if got != "diagram reading" {
		t.Errorf("AnalyzeImages() = %q", got)
	}
	user := client.requests[0].Messages[1]
	if len(user.Parts) != 2 {
		t.Errorf("user turn parts = %d, want text + image", len(user.Parts))
	}
}

func TestClipRespectsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("语", 10)
	got := clip(s, 8)
	if !strings.HasPrefix(s, got) {
		t.Errorf("clip produced non-prefix %q", got)
	}
	for _, r := range got {
		if r == '�' {
			t.Errorf("clip split a rune: %q", got)
		}
	}
}
