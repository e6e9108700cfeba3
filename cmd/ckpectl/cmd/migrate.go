package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/migrate"
	"github.com/ckpe-tools/ckpectl/internal/render"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Relocate settings from legacy CKPE layouts",
	Long: `Relocate settings that older CKPE versions kept under
[CreationKit] to the sections current versions read them from.

Each moved value is appended to its new section and the legacy line is
commented out in place with a pointer to the new home, so the file's
line count is preserved and a second run finds nothing left to move.
Settings already present at the target are left alone and reported.

Examples:
  ckpectl migrate --dry-run
  ckpectl migrate`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Bool("dry-run", false, "Show what would move without writing")
}

// runMigrate handles the migrate command.
func runMigrate(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	report, err := migrate.Apply(st.Document(), nil)
	if err != nil {
		return err
	}

	if report.Empty() {
		cmd.Println("Nothing to migrate.")
		return nil
	}

	changed := make([]string, 0, len(report.Applied))
	for _, m := range report.Applied {
		cmd.Printf("%s %s -> %s %s = %s\n",
			render.SectionStyle.Render("["+m.FromSection+"]"),
			render.KeyStyle.Render(m.FromKey),
			render.SectionStyle.Render("["+m.ToSection+"]"),
			render.KeyStyle.Render(m.ToKey),
			render.ValueStyle.Render(m.Value))
		changed = append(changed, m.ToSection+"."+m.ToKey)
	}
	for _, w := range report.Warnings {
		cmd.Println(render.WarningStyle.Render("warning:") + " " + w)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		cmd.Println(render.MutedStyle.Render("Dry run: nothing written."))
		return nil
	}
	if len(report.Applied) == 0 {
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
