package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"suitesync.dev/pkg/suitesync/internal/domain"
)

const (
	defaultPrevRevision = "HEAD~1"
	defaultCurrRevision = "HEAD"
)

var runBootstrapFlag bool
var runWorkingTreeFlag bool
var runPrevFlag string
var runCurrFlag string
var runNoPublishFlag bool
var runThresholdFlag float64
var runMaxIterationsFlag int
var runParallelFlag int
var runMetricsFileFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate tests for changed code until coverage converges",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveRoot(cmd.Context(), rootFlag)
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				Root:        root,
				Config:      buildConfig(),
				Bootstrap:   runBootstrapFlag,
				Diff:        diffOptions(runWorkingTreeFlag, runPrevFlag, runCurrFlag),
				NoPublish:   runNoPublishFlag,
				MetricsFile: viper.GetString(metricsFileKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&runBootstrapFlag, bootstrapFlagName, false, "treat every declaration under the source root as impacted")
	configureDiffFlags(cmd, &runWorkingTreeFlag, &runPrevFlag, &runCurrFlag)
	cmd.Flags().BoolVar(&runNoPublishFlag, noPublishFlagName, false, "stop after convergence without committing or opening a pull request")

	cmd.Flags().Float64Var(&runThresholdFlag, thresholdFlagName, viper.GetFloat64(thresholdKey), "line coverage percentage to reach")
	bindFlagToConfig(cmd.Flags().Lookup(thresholdFlagName), thresholdKey)

	cmd.Flags().IntVar(&runMaxIterationsFlag, maxIterationsFlagName, viper.GetInt(maxIterationsKey), "maximum number of mutation passes")
	bindFlagToConfig(cmd.Flags().Lookup(maxIterationsFlagName), maxIterationsKey)

	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of concurrent generation requests")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVar(&runMetricsFileFlag, metricsFileFlagName, viper.GetString(metricsFileKey), "write Prometheus metrics of the run to this file")
	bindFlagToConfig(cmd.Flags().Lookup(metricsFileFlagName), metricsFileKey)
}

// configureDiffFlags registers the revision selection flags shared by run and impact.
func configureDiffFlags(cmd *cobra.Command, workingTree *bool, prev, curr *string) {
	cmd.Flags().BoolVarP(workingTree, workingTreeFlagName, "w", false, "compare uncommitted changes against HEAD")
	cmd.Flags().StringVar(prev, prevFlagName, defaultPrevRevision, "previous revision")
	cmd.Flags().StringVar(curr, currFlagName, defaultCurrRevision, "current revision")
}

func diffOptions(workingTree bool, prev, curr string) domain.DiffOptions {
	if workingTree {
		return domain.DiffOptions{WorkingTree: true}
	}

	return domain.DiffOptions{Prev: prev, Curr: curr}
}
