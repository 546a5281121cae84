// Package cmd provides the root command and CLI setup for suitesync.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	"suitesync.dev/pkg/suitesync/internal/controller"
	"suitesync.dev/pkg/suitesync/internal/domain"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var gitAdapter adapter.GitAdapter
var goFileAdapter adapter.GoFileAdapter
var scriptAdapter adapter.ScriptFileAdapter
var reportStore adapter.ReportStore
var testRunner adapter.TestRunnerAdapter
var factory domain.AdapterFactory
var workflow domain.Workflow
var ui controller.UI

// rootFlag is the directory the repository root is searched from.
var rootFlag string

var verboseFlag bool
var logFileFlag string

// excludePatterns is a root-level flag that filters source files for every command.
var excludePatterns []string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	gitAdapter = adapter.NewLocalGitAdapter()
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	scriptAdapter = adapter.NewTreeSitterScriptAdapter()
	reportStore = adapter.NewLocalReportStore(fsAdapter)
	testRunner = adapter.NewLocalTestRunnerAdapter(viper.GetDuration(coverageTimeoutKey))
	factory = domain.NewAdapterFactory(testRunner)
	workflow = domain.NewWorkflow(
		fsAdapter,
		gitAdapter,
		goFileAdapter,
		scriptAdapter,
		reportStore,
		ui,
		factory,
	)
}

const rootLongDescription = `Suitesync keeps a repository's unit tests in step with its source code.

It maps the lines changed between two revisions (or in the working tree) onto
the functions and classes that contain them, asks a language model backend for
tests of exactly those declarations, merges the tests into the generated test
files and re-measures line coverage until a threshold is met. When it is met,
the tests are committed to a new branch and proposed as a pull request.`

const runLongDescription = `Run one synchronization pass.

By default the pass is incremental: declarations touched by the diff between
--prev and --curr (or by uncommitted changes with --working-tree) get new tests.
With --bootstrap every declaration under the source root is treated as impacted
and the generated test files are rewritten.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suitesync",
		Short: "Change-driven unit test generation",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&rootFlag, rootFlagName, ".", "directory inside the repository to operate on")

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude source files matching a glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// resolveRoot turns the --root flag into the absolute repository root. A
// directory outside any repository is used as is.
func resolveRoot(ctx context.Context, dir string) (m.Path, error) {
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", dir, err)
	}

	root, err := fsAdapter.FindProjectRoot(ctx, m.Path(abs))
	if err != nil {
		return m.Path(abs), nil
	}

	return root, nil
}
