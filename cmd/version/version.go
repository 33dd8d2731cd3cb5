package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X pcapveil/cmd/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pcapveil %s (%s) %s/%s %s\n", Version, GitCommit, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}
