package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/armcknight/cache-for-clankers/memory"
)

var (
	listLimit int
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored memories",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "maximum number of memories to show")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	frags, err := manager.ListAll(cmd.Context(), listLimit)
	if err != nil {
		return err
	}

	if len(frags) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No memories stored.")
		return nil
	}

	if listJSON {
		return printJSON(cmd, fragmentsForJSON(frags))
	}

	for _, f := range frags {
		fmt.Fprintf(cmd.OutOrStdout(), "id=%s ts=%s importance=%.3f\n",
			f.ID, f.CreatedAt.Format(time.RFC3339), f.Importance)
		fmt.Fprintf(cmd.OutOrStdout(), "    %s\n\n", clip(f.Content, 120))
	}
	return nil
}

// listedMemory is the JSON output shape for a stored fragment.
type listedMemory struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Importance float64  `json:"importance"`
	SessionIDs []string `json:"session_ids,omitempty"`
	CreatedAt  string   `json:"created_at"`
	Sequence   int      `json:"sequence"`
}

func fragmentsForJSON(frags []memory.Fragment) []listedMemory {
	out := make([]listedMemory, len(frags))
	for i, f := range frags {
		out[i] = listedMemory{
			ID:         f.ID,
			Content:    f.Content,
			Importance: f.Importance,
			SessionIDs: f.SessionIDs,
			CreatedAt:  f.CreatedAt.Format(time.RFC3339),
			Sequence:   f.Sequence,
		}
	}
	return out
}
