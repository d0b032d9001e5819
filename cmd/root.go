package cmd

import (
	"github.com/spf13/cobra"
)

const banner = `       __   __
  _____|  | _/  |_  ___________
 /     \  |/ /\   __\/  _ \_  __ \
|  Y Y  \    <  |  | (  <_> )  | \/
|__|_|  /__|_ \ |__|  \____/|__|
      \/     \/                    `

var rootCmd = &cobra.Command{
	Use:   "mktorr",
	Short: "A tool to create torrent files",
	Long:  banner + "\n\nmktorr creates .torrent files from files and directories.",
}

const commonUsageTemplate = `Usage:
  {{.CommandPath}} [command]

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`

// Execute configures and runs the root command.
func Execute() error {
	cobra.EnableCommandSorting = false
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetUsageTemplate(commonUsageTemplate)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(versionCmd)
	return rootCmd.Execute()
}
