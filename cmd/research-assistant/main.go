// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-assistant CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/internal/secrets"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "research-assistant/0.1"
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-4o"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the named secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the research-assistant CLI.
var rootCmd = &cobra.Command{
	Use:   "research-assistant",
	Short: "Multi-agent research assistant for papers, repositories, and models",
	Long: `research-assistant searches arXiv, GitHub, Hugging Face, and ModelScope for
research material and runs multi-agent LLM pipelines over the results: deep
content analysis with quality control, related-work discovery, and a
conversational search mode that gathers your intent before searching.

Each capability is a subcommand: search, analyze, related, and chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-assistant.yaml or ~/.config/research-assistant/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-assistant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-assistant"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_ASSISTANT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// llmConfig assembles the chat endpoint settings from config, env, and
// secrets.
func llmConfig() types.LLMConfig {
	cfg := types.LLMConfig{
		BaseURL:     viper.GetString("llm.base_url"),
		APIKey:      secretDefault("openai-api-key", viper.GetString("llm.api_key")),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxAttempts: viper.GetInt("llm.max_attempts"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg
}

// newCaller builds the continuation-aware caller from the configuration.
func newCaller(cfg types.LLMConfig) *llm.Caller {
	caller := llm.NewCaller(&llm.OpenAIClient{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Client:  &http.Client{Timeout: 5 * time.Minute},
	}, cfg.Model)
	if cfg.Temperature > 0 {
		caller.Temperature = cfg.Temperature
	}
	if cfg.MaxAttempts > 0 {
		caller.MaxAttempts = cfg.MaxAttempts
	}
	return caller
}

// searchConfig assembles the source-client settings.
func searchConfig() types.SearchConfig {
	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("search.timeout"),
			UserAgent: defaultUserAgent,
		},
		MaxResults:  viper.GetInt("search.max_results"),
		GitHubToken: secretDefault("github-token", viper.GetString("search.github_token")),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// collectorConfig assembles the interview settings.
func collectorConfig() types.CollectorConfig {
	return types.CollectorConfig{
		MaxQuestions: viper.GetInt("collector.max_questions"),
	}
}

// pipelineConfig assembles the analysis pipeline settings.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		MaxRepairPasses: viper.GetInt("pipeline.max_repair_passes"),
		FetchImages:     viper.GetBool("pipeline.fetch_images"),
		ReportDir:       viper.GetString("pipeline.report_dir"),
	}
}

// newHTTPClient builds the shared HTTP client for the source backends.
func newHTTPClient(cfg types.SearchConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// newBackends builds one backend per source in canonical order.
func newBackends(cfg types.SearchConfig) []search.Backend {
	client := newHTTPClient(cfg)
	return []search.Backend{
		&search.ArxivBackend{Client: client, UserAgent: cfg.UserAgent},
		&search.GitHubBackend{Client: client, Token: cfg.GitHubToken, UserAgent: cfg.UserAgent},
		&search.HuggingFaceBackend{Client: client, UserAgent: cfg.UserAgent},
		&search.ModelScopeBackend{Client: client, UserAgent: cfg.UserAgent},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
