package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/config"
	"github.com/ckpe-tools/ckpectl/internal/inifile"
	"github.com/ckpe-tools/ckpectl/internal/render"
)

// diffCmd represents the diff command.
var diffCmd = &cobra.Command{
	Use:   "diff [file]",
	Short: "Compare the INI against another file or the defaults",
	Long: `Compare the INI key by key against another INI file, or against
the schema defaults when no file is given.

Settings only present in the other file show as added, settings only
present locally as removed, and differing values as changed. Sections
and keys match case-insensitively; with duplicate keys the last
occurrence is compared, the one the Creation Kit reads.

Examples:
  ckpectl diff                      # against schema defaults
  ckpectl diff backup/old.ini
  ckpectl diff other.ini --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().String("format", "", "Output format: text or json")
}

// runDiff handles the diff command.
func runDiff(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	var other *inifile.Document
	if len(args) == 1 {
		other, err = inifile.Load(args[0])
		if err != nil {
			return err
		}
	} else {
		sc, err := loadSchema(cmd)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := sc.WriteDefaults(&buf, "\n"); err != nil {
			return err
		}
		other = inifile.Parse(buf.Bytes(), "(defaults)")
	}

	entries := inifile.Compare(st.Document(), other)

	if outputFormat(cmd) == config.FormatJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No differences.")
		return nil
	}
	cmd.Print(render.Diff(entries))
	return nil
}
