package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"suitesync.dev/pkg/suitesync/internal/controller"
	"suitesync.dev/pkg/suitesync/internal/domain"
)

var impactWorkingTreeFlag bool
var impactPrevFlag string
var impactCurrFlag string
var impactFormatFlag string

var impactFormats = []string{controller.FormatTable, controller.FormatYAML, controller.FormatJSON}

// impactCmd represents the impact command.
var impactCmd = newImpactCmd()

func newImpactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Show which declarations a diff touches",
		Long: `Map the changed lines of a diff onto the functions and classes that contain
them and print the result without generating or measuring anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(impactFormats, impactFormatFlag) {
				return fmt.Errorf("unsupported format %q (want one of %v)", impactFormatFlag, impactFormats)
			}

			root, err := resolveRoot(cmd.Context(), rootFlag)
			if err != nil {
				return err
			}

			return workflow.Impact(cmd.Context(), domain.ImpactArgs{
				Root:   root,
				Config: buildConfig(),
				Diff:   diffOptions(impactWorkingTreeFlag, impactPrevFlag, impactCurrFlag),
				Format: impactFormatFlag,
			})
		},
	}

	configureDiffFlags(cmd, &impactWorkingTreeFlag, &impactPrevFlag, &impactCurrFlag)
	cmd.Flags().StringVar(&impactFormatFlag, formatFlagName, controller.FormatTable, "output format: table, yaml or json")

	return cmd
}

func init() {
	rootCmd.AddCommand(impactCmd)
}
