package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search arXiv, GitHub, Hugging Face, and ModelScope",
	Long: `Search runs the given keywords against the selected sources inside the
chosen time window. Results are deduplicated by title across sources and
keywords. Use --explore to browse what was active in the last three days
instead of a windowed keyword search.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("time-range", string(types.RangePastYear), "publication window: yesterday, past_week, past_month, past_3months, past_year")
	searchCmd.Flags().StringSlice("sources", nil, "sources to search (default all): arxiv, github, huggingface, modelscope")
	searchCmd.Flags().Int("max", 0, "target number of results")
	searchCmd.Flags().Bool("explore", false, "browse trending items from the last 3 days")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more search keywords")
	}

	timeRange, _ := cmd.Flags().GetString("time-range")
	sources, _ := cmd.Flags().GetStringSlice("sources")
	maxResults, _ := cmd.Flags().GetInt("max")
	explore, _ := cmd.Flags().GetBool("explore")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := searchConfig()
	backends := newBackends(cfg)
	if maxResults <= 0 {
		maxResults = cfg.MaxResults
	}

	var results []types.SearchResult
	var err error
	if explore {
		if maxResults <= 0 {
			maxResults = 30
		}
		results, err = search.Explore(cmd.Context(), strings.Join(args, " "), backends, maxResults, os.Stderr)
	} else {
		strategy := types.DefaultStrategy()
		strategy.Keywords = args
		if tr := types.TimeRange(timeRange); tr.Valid() {
			strategy.TimeRange = tr
		}
		if len(sources) > 0 {
			strategy.Sources = nil
			for _, s := range sources {
				strategy.Sources = append(strategy.Sources, types.Source(s))
			}
		}
		if maxResults > 0 {
			strategy.TargetCount = maxResults
		}
		results, err = search.Aggregate(cmd.Context(), strategy, backends, os.Stderr)
		results = search.Truncate(results, strategy.TargetCount)
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	return printResults(os.Stdout, results, asJSON)
}

// printResults writes the result list as a readable table or as JSON.
func printResults(w io.Writer, results []types.SearchResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, r := range results {
		extra := ""
		switch r.Kind() {
		case types.KindPaper:
			extra = r.Published
		case types.KindRepository:
			extra = fmt.Sprintf("%d stars", r.Stars)
		case types.KindModelEntry:
			extra = fmt.Sprintf("%d downloads", r.Downloads)
		}
		fmt.Fprintf(w, "%3d. [%s] %s (%s)\n     %s\n", i+1, r.Source, r.Title, extra, r.URL)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}
