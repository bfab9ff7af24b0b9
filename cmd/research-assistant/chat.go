package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/intent"
	"github.com/pdiddy/research-assistant/internal/search"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Conversational search: describe what you need, then search",
	Long: `Chat interviews you about your research needs, builds a search strategy
from the collected profile, runs the search, and filters the results for
relevance against your intent.

Commands inside the session: /reset starts the interview over, /quit exits.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Int("questions", 0, "maximum interview questions before the search starts")
	chatCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	maxQuestions, _ := cmd.Flags().GetInt("questions")
	asJSON, _ := cmd.Flags().GetBool("json")
	if maxQuestions <= 0 {
		maxQuestions = collectorConfig().MaxQuestions
	}

	caller := newCaller(llmConfig())
	sessions := intent.NewSessions(func() *intent.Collector {
		return intent.NewCollector(caller, maxQuestions)
	})
	id, collector := sessions.Create()

	ctx := cmd.Context()
	out := os.Stdout
	reply, err := collector.NextQuestion(ctx, "")
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	fmt.Fprintf(out, "%s\n\n", reply.Message)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "":
			continue
		case "/quit", "/exit", "exit":
			return nil
		case "/reset":
			sessions.Reset(id)
			fmt.Fprintln(out, "Session reset.")
			if reply, err = collector.NextQuestion(ctx, ""); err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			fmt.Fprintf(out, "%s\n\n", reply.Message)
			continue
		}

		reply, err = collector.NextQuestion(ctx, input)
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		fmt.Fprintf(out, "%s\n\n", reply.Message)
		if reply.Type != intent.ReplyReady {
			continue
		}

		if err := searchWithIntent(cmd, collector, asJSON); err != nil {
			return err
		}
		// One search per interview; start fresh for the next topic.
		sessions.Reset(id)
		fmt.Fprintln(out, "Ready for a new topic. Describe what you are looking for, or /quit to exit.")
	}
}

// searchWithIntent runs the strategy built from the interview and prints
// the results that match the collected intent, falling back to the first
// target-count results when nothing matches.
func searchWithIntent(cmd *cobra.Command, collector *intent.Collector, asJSON bool) error {
	ctx := cmd.Context()

	strategy, err := collector.BuildStrategy(ctx)
	if err != nil {
		return fmt.Errorf("building strategy: %w", err)
	}
	fmt.Fprintf(os.Stderr, "searching %v for %v (%s)...\n",
		strategy.Sources, strategy.Keywords, strategy.TimeRange)

	backends := newBackends(searchConfig())
	results, err := search.Aggregate(ctx, strategy, backends, os.Stderr)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No results found. Try rephrasing your needs.")
		return nil
	}

	matched, unmatched, err := collector.FilterResults(ctx, results)
	if err != nil {
		return fmt.Errorf("filtering results: %w", err)
	}
	shown := fallbackResults(matched, unmatched, strategy.TargetCount)
	if len(matched) == 0 {
		fmt.Fprintf(os.Stdout, "No results matched your intent closely; showing the first %d found.\n", len(shown))
	}
	return printResults(os.Stdout, shown, asJSON)
}

// fallbackResults returns the matched set, or the first target unique
// results unfiltered when the filter matched nothing.
func fallbackResults(matched, unmatched []types.SearchResult, target int) []types.SearchResult {
	if len(matched) > 0 {
		return matched
	}
	return search.Truncate(unmatched, target)
}
