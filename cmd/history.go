package cmd

import (
	"github.com/spf13/cobra"

	"suitesync.dev/pkg/suitesync/internal/domain"
)

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List archived coverage snapshots",
		Long: `Print the coverage snapshots archived by previous runs, oldest first, from
the configured reports directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveRoot(cmd.Context(), rootFlag)
			if err != nil {
				return err
			}

			return workflow.History(cmd.Context(), domain.HistoryArgs{
				Root:   root,
				Config: buildConfig(),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
