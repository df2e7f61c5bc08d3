// Package cli implements the ew2propresenter command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "ew2propresenter",
	Short: "Export EasyWorship songs to ProPresenter 6",
	Long: `ew2propresenter converts songs from an EasyWorship database into
ProPresenter 6 presentation documents.

Lyrics are read as RTF from the EasyWorship SQLite database, cleaned up
(including recovery of Swedish and other non-ASCII characters), split into
sections (verse, chorus, bridge, ...) and written as .pro6 files with one
slide group per section.

Commands:
  export    Export songs to .pro6 files
  list      List songs in the database
  inspect   Show the processing stages for one song
  config    Manage configuration
  mappings  Manage section marker mappings

Environment variables:
  EASYWORSHIP_DB_PATH   Default EasyWorship database directory`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ew2propresenter %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
