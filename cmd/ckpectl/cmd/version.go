package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show detailed version information for ckpectl.

Displays the current version, commit hash, build date,
and Go/platform information.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("json", false, "Output as JSON")
}

// runVersion handles the version command.
func runVersion(cmd *cobra.Command, args []string) error {
	info := version.NewInfo(Version, Commit, Date)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(cmd, info)
	}

	cmd.Println(info.FullString())
	return nil
}
