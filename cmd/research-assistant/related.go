package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/pipeline"
	"github.com/pdiddy/research-assistant/internal/search"
)

var relatedCmd = &cobra.Command{
	Use:   "related",
	Short: "Find and compare related work for a paper",
	Long: `Related extracts search keywords from the given paper, searches arXiv for
papers from the last three years, filters the candidates for relevance, and
compares the paper against them on technical approach and experimental
design. The final report is written to stdout.`,
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().String("title", "", "paper title (required)")
	relatedCmd.Flags().String("abstract", "", "paper abstract")

	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	abstract, _ := cmd.Flags().GetString("abstract")
	if title == "" {
		return fmt.Errorf("provide --title")
	}

	cfg := searchConfig()
	rw := pipeline.NewRelatedWork(newCaller(llmConfig()),
		&search.ArxivBackend{Client: newHTTPClient(cfg), UserAgent: cfg.UserAgent})

	paperInfo := fmt.Sprintf("Title: %s\nAbstract: %s", title, abstract)
	report, err := rw.Run(cmd.Context(), paperInfo, stderrProgress)
	if err != nil {
		return fmt.Errorf("related: %w", err)
	}

	fmt.Fprintln(os.Stdout, report)
	return nil
}
