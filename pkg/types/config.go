// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-assistant/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMConfig holds settings for the chat completion endpoint.
type LLMConfig struct {
	// BaseURL is the OpenAI-compatible API root (e.g. "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the bearer token for the chat endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// Temperature for analytical calls (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxAttempts bounds the truncation-continuation loop (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// SearchConfig holds settings for the search aggregator and the
// per-source backends.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the per-keyword cap for the primary source (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// GitHubToken raises GitHub API rate limits when set.
	GitHubToken string `json:"github_token,omitempty" yaml:"github_token,omitempty"`
}

// CollectorConfig holds settings for the conversational intent collector.
type CollectorConfig struct {
	// MaxQuestions is the number of question rounds after which the
	// collector forces readiness (default 3).
	MaxQuestions int `json:"max_questions" yaml:"max_questions"`
}

// PipelineConfig holds settings for the orchestrator pipelines.
type PipelineConfig struct {
	// MaxRepairPasses bounds the reflect/repair loop (default 1).
	MaxRepairPasses int `json:"max_repair_passes" yaml:"max_repair_passes"`

	// FetchImages enables the vision stage when the model is multimodal.
	FetchImages bool `json:"fetch_images" yaml:"fetch_images"`

	// ReportDir, when set, receives one YAML report file per analyzed item.
	ReportDir string `json:"report_dir,omitempty" yaml:"report_dir,omitempty"`
}
