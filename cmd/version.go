package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autobrr/mktorr/internal/torrent"
)

var (
	version   string
	buildTime string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mktorr version: %s\n", version)
		if buildTime != "unknown" {
			fmt.Printf("Build Time:     %s\n", buildTime)
		}
	},
	DisableFlagsInUseLine: true,
}

func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	torrent.Version = v
}

func init() {
	versionCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}}

Prints the version and build time information for mktorr.
`)
}
