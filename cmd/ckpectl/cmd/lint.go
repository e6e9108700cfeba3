package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/config"
	"github.com/ckpe-tools/ckpectl/internal/render"
	"github.com/ckpe-tools/ckpectl/internal/store"
)

// lintCmd represents the lint command.
var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate the whole INI file",
	Long: `Validate every entry of the INI file against the settings schema.

Findings come in three severities: errors for values a cataloged spec
rejects, warnings for unknown keys, duplicates, orphan entries and
malformed lines, and notes for cataloged keys the file does not set.

The exit code is 1 when errors are found; with --strict, warnings fail
the run too.

Examples:
  ckpectl lint
  ckpectl lint --strict
  ckpectl lint --format json`,
	Args: cobra.NoArgs,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().Bool("strict", false, "Treat warnings as failures")
	lintCmd.Flags().String("format", "", "Output format: text or json")
}

// runLint handles the lint command.
func runLint(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	report := st.Check()

	if outputFormat(cmd) == config.FormatJSON {
		if err := printJSON(cmd, report); err != nil {
			return err
		}
	} else {
		cmd.Print(render.LintReport(report, st.Path()))
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if report.HasErrors() {
		return fmt.Errorf("lint failed: %d error(s)", report.Count(store.SeverityError))
	}
	if strict && report.HasWarnings() {
		return fmt.Errorf("lint failed in strict mode: %d warning(s)", report.Count(store.SeverityWarning))
	}
	return nil
}
