package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/pipeline"
	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the multi-agent analysis pipeline over search results",
	Long: `Analyze runs each item through the pipeline matching its kind: papers get
the method/experiment/review experts, repositories and models get the
architecture/code/usage experts. Repository and model content is fetched
before analysis. Every report passes a quality-control reflection and is
repaired when the reviewer asks for it.

Input is either a JSON results file produced by 'search --json' or a single
paper given inline with --title and --abstract.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("input", "", "JSON file of search results to analyze")
	analyzeCmd.Flags().String("title", "", "paper title for a single inline analysis")
	analyzeCmd.Flags().String("abstract", "", "paper abstract for a single inline analysis")
	analyzeCmd.Flags().Bool("images", false, "fetch and analyze images (multimodal models only)")
	analyzeCmd.Flags().String("report-dir", "", "directory to write one YAML report per item")
	analyzeCmd.Flags().Int("repairs", 0, "maximum quality-control repair passes per item")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	title, _ := cmd.Flags().GetString("title")
	abstract, _ := cmd.Flags().GetString("abstract")
	withImages, _ := cmd.Flags().GetBool("images")
	reportDir, _ := cmd.Flags().GetString("report-dir")
	repairs, _ := cmd.Flags().GetInt("repairs")

	results, err := analysisInput(input, title, abstract)
	if err != nil {
		return err
	}

	pcfg := pipelineConfig()
	if repairs <= 0 {
		repairs = pcfg.MaxRepairPasses
	}
	if !withImages {
		withImages = pcfg.FetchImages
	}
	if reportDir == "" {
		reportDir = pcfg.ReportDir
	}

	if reportDir != "" {
		if err := os.MkdirAll(reportDir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	caller := newCaller(llmConfig())
	cfg := searchConfig()
	batch := &pipeline.Batch{
		Papers:      pipeline.NewPaperAnalysis(caller, repairs),
		Projects:    pipeline.NewProjectAnalysis(caller, repairs),
		GitHub:      newGitHubBackend(cfg),
		HuggingFace: newHuggingFaceBackend(cfg),
		ModelScope:  newModelScopeBackend(cfg),
		FetchImages: withImages,
		ReportDir:   reportDir,
	}

	reports, summary, err := batch.Run(cmd.Context(), results, stderrProgress)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	titles := make([]string, 0, len(reports))
	for t := range reports {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	for _, t := range titles {
		fmt.Fprintf(os.Stdout, "=== %s ===\n\n%s\n\n", t, reports[t])
	}
	fmt.Fprintf(os.Stderr, "analyzed %d, failed %d\n", summary.Analyzed, summary.Failed)
	return nil
}

// analysisInput loads the results file or builds a single inline paper.
func analysisInput(input, title, abstract string) ([]types.SearchResult, error) {
	switch {
	case input != "" && title != "":
		return nil, fmt.Errorf("--input and --title are mutually exclusive")
	case input != "":
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("reading results file: %w", err)
		}
		var results []types.SearchResult
		if err := json.Unmarshal(data, &results); err != nil {
			return nil, fmt.Errorf("parsing results file %s: %w", input, err)
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("results file %s is empty", input)
		}
		return results, nil
	case title != "":
		return []types.SearchResult{{
			Title:    title,
			Abstract: abstract,
			Source:   types.SourceArxiv,
		}}, nil
	default:
		return nil, fmt.Errorf("provide --input or --title")
	}
}

// stderrProgress reports pipeline stages without polluting stdout.
func stderrProgress(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

func newGitHubBackend(cfg types.SearchConfig) *search.GitHubBackend {
	return &search.GitHubBackend{
		Client:    newHTTPClient(cfg),
		Token:     cfg.GitHubToken,
		UserAgent: cfg.UserAgent,
	}
}

func newHuggingFaceBackend(cfg types.SearchConfig) *search.HuggingFaceBackend {
	return &search.HuggingFaceBackend{Client: newHTTPClient(cfg), UserAgent: cfg.UserAgent}
}

func newModelScopeBackend(cfg types.SearchConfig) *search.ModelScopeBackend {
	return &search.ModelScopeBackend{Client: newHTTPClient(cfg), UserAgent: cfg.UserAgent}
}
