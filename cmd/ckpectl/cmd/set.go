package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/inifile"
	"github.com/ckpe-tools/ckpectl/internal/render"
)

// setCmd represents the set command.
var setCmd = &cobra.Command{
	Use:   "set <Section.Key | Section Key> <value>",
	Short: "Write a setting",
	Long: `Validate a value against the settings schema and write it to the
INI file.

The value is normalized before it is written: booleans are lowercased
and enum labels resolve to their numeric value. A snapshot of the file
is taken before the save unless backups are disabled. Only the touched
entry line changes; everything else in the file stays byte-identical.

Examples:
  ckpectl set CreationKit.bSkipFileCheck true
  ckpectl set CreationKit nCharset RUSSIAN_CHARSET
  ckpectl set Theme.uUIDarkThemeId Darker --dry-run`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().Bool("dry-run", false, "Validate and show the change without writing")
	setCmd.Flags().Bool("no-backup", false, "Skip the pre-save snapshot")
}

// runSet handles the set command.
func runSet(cmd *cobra.Command, args []string) error {
	section, key, rest, err := parseSettingRef(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("expected exactly one value for %s.%s", section, key)
	}
	value := rest[0]

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noBackup, _ := cmd.Flags().GetBool("no-backup")
	if noBackup {
		cfg.Backup.Enabled = false
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	if err := st.Set(section, key, value); err != nil {
		return err
	}

	changed := make([]string, 0, 1)
	for _, ch := range st.Changes() {
		// An edited entry may legitimately have an empty old value,
		// so "(new)" is tied to the append, not to Old.
		was := "(was " + ch.Old + ")"
		if ch.Op == inifile.OpAppend {
			was = "(new)"
		}
		cmd.Printf("%s %s = %s %s\n",
			render.SectionStyle.Render("["+ch.Section+"]"),
			render.KeyStyle.Render(ch.Key),
			render.ValueStyle.Render(ch.New),
			render.MutedStyle.Render(was))
		changed = append(changed, ch.Section+"."+ch.Key)
	}
	if len(changed) == 0 {
		cmd.Println("Already set; nothing to do.")
		return nil
	}

	if dryRun {
		cmd.Println(render.MutedStyle.Render("Dry run: nothing written."))
		return nil
	}

	ctx := cmd.Context()
	if err := st.Save(ctx); err != nil {
		return err
	}
	cmd.Println(render.SuccessStyle.Render("Saved " + st.Path()))

	runPostSaveHooks(ctx, cmd, st.Path(), changed)
	return nil
}
