package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildSettings picks the VCS stamps the Go toolchain embeds in module builds.
var buildSettings = []string{"vcs.revision", "vcs.time", "vcs.modified"}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the suitesync version",
		Long:  "Displays the suitesync build version, the Go version and the VCS revision it was built from.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("version: unknown")
				return
			}

			printBuildInfo(cmd, info)
		},
	}
}

func printBuildInfo(cmd *cobra.Command, info *debug.BuildInfo) {
	version := info.Main.Version
	if version == "" {
		version = "(devel)"
	}

	cmd.Println("suitesync\t", version)
	cmd.Println("go\t\t", info.GoVersion)

	for _, setting := range info.Settings {
		for _, key := range buildSettings {
			if setting.Key == key && setting.Value != "" {
				cmd.Println(key+"\t", setting.Value)
			}
		}
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
