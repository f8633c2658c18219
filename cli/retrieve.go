package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armcknight/cache-for-clankers/memory"
)

var (
	retrieveN             int
	retrieveMinImportance float64
	retrieveJSON          bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <query>",
	Short: "Retrieve relevant memories",
	Long: `Retrieve the most relevant memories for a natural-language query.

Results are re-ranked by a weighted combination of semantic similarity
(70%) and stored importance score (30%).`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveN, "results", "n", 5, "number of results to return")
	retrieveCmd.Flags().Float64Var(&retrieveMinImportance, "min-importance", 0, "minimum importance score filter")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	results, err := manager.Retrieve(cmd.Context(), args[0], retrieveN, retrieveMinImportance)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No memories found.")
		return nil
	}

	if retrieveJSON {
		return printJSON(cmd, resultsForJSON(results))
	}

	for i, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] (similarity=%.3f, importance=%.3f)\n",
			i+1, r.Similarity, r.Importance)
		fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", clip(r.Content, 200))
		fmt.Fprintf(cmd.OutOrStdout(), "    id=%s\n\n", r.ID)
	}
	return nil
}

// retrievedMemory is the JSON output shape for a ranked result.
type retrievedMemory struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Similarity float64  `json:"similarity"`
	Combined   float64  `json:"combined"`
	Importance float64  `json:"importance"`
	SessionIDs []string `json:"session_ids,omitempty"`
}

func resultsForJSON(results []memory.RankedResult) []retrievedMemory {
	out := make([]retrievedMemory, len(results))
	for i, r := range results {
		out[i] = retrievedMemory{
			ID:         r.ID,
			Content:    r.Content,
			Similarity: r.Similarity,
			Combined:   r.Combined,
			Importance: r.Importance,
			SessionIDs: r.SessionIDs,
		}
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func clip(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
