package main

import (
	"os"
	"pcapveil/cmd/generate"
	"pcapveil/cmd/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pcapveil",
	Short: "Hide a structured payload among decoy packets in a pcap file.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stderr)
		cmd.Usage()
		os.Exit(1)
	},
}

func main() {
	rootCmd.AddCommand(generate.Cmd)
	rootCmd.AddCommand(version.Cmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
