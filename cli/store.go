package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/armcknight/cache-for-clankers/memory"
)

var storeSession string

var storeCmd = &cobra.Command{
	Use:   "store [text]",
	Short: "Store text in memory",
	Long: `Store text in memory. Reads stdin when no argument is given.

Long texts are split into chunks before storage; near-duplicate
content is merged with the existing entry rather than stored twice.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStore,
}

func init() {
	storeCmd.Flags().StringVar(&storeSession, "session", "", "optional session identifier")
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	ids, err := manager.Store(cmd.Context(), text, storeSession)
	if len(ids) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d memory chunk(s): %s\n",
			len(ids), strings.Join(ids, ", "))
	}
	if err != nil {
		var chunkErr *memory.ChunkError
		if errors.As(err, &chunkErr) && len(ids) > 0 {
			return fmt.Errorf("%d chunk(s) committed before failure: %w", len(ids), err)
		}
		return err
	}
	return nil
}
