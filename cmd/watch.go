package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"suitesync.dev/pkg/suitesync/internal/domain"
)

var watchDebounceFlag time.Duration
var watchNoPublishFlag bool

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run incremental passes whenever source files change",
		Long: `Watch the source root and run an incremental pass against the working tree
each time a burst of file changes settles. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveRoot(cmd.Context(), rootFlag)
			if err != nil {
				return err
			}

			return workflow.Watch(cmd.Context(), domain.WatchArgs{
				Root:        root,
				Config:      buildConfig(),
				Debounce:    viper.GetDuration(watchDebounceKey),
				NoPublish:   watchNoPublishFlag,
				MetricsFile: viper.GetString(metricsFileKey),
			})
		},
	}

	cmd.Flags().DurationVar(&watchDebounceFlag, debounceFlagName, viper.GetDuration(watchDebounceKey), "quiet period before a burst of changes triggers a pass")
	bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), watchDebounceKey)
	cmd.Flags().BoolVar(&watchNoPublishFlag, noPublishFlagName, false, "never commit or open pull requests")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
