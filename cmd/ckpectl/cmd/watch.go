package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/render"
	"github.com/ckpe-tools/ckpectl/internal/store"
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the INI and revalidate on external edits",
	Long: `Watch the INI file and revalidate it whenever something else
writes it: the Creation Kit, an editor, or another ckpectl.

Each external change reloads the file and prints a lint summary.
Changes that arrive while unsaved local edits exist are reported as
conflicts and not loaded. Runs until interrupted.

Examples:
  ckpectl watch
  ckpectl watch --ini "C:/Games/Skyrim SE/CreationKitPlatformExtended.ini"`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch handles the watch command.
func runWatch(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	watcher, err := store.NewWatcher(st)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher.Start(ctx)
	cmd.Printf("Watching %s (Ctrl-C to stop)\n", st.Path())

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped.")
			return nil
		case ev := <-watcher.Events():
			printWatchEvent(cmd, ev)
		}
	}
}

// printWatchEvent renders one watcher notification.
func printWatchEvent(cmd *cobra.Command, ev store.Event) {
	switch ev.Kind {
	case store.EventConflict:
		cmd.Println(render.WarningStyle.Render("conflict:") + " file changed on disk while local edits are unsaved; not reloaded")
	case store.EventInvalid:
		cmd.Println(render.ErrorStyle.Render("invalid:") + " file changed and fails validation")
		// The report is nil when the file could not be re-read at all.
		if ev.Report != nil {
			cmd.Print(render.LintReport(ev.Report, ev.Path))
		}
	case store.EventReloaded:
		line := render.SuccessStyle.Render("reloaded:") + " " + ev.Path
		if ev.Report != nil && ev.Report.HasWarnings() {
			line += render.MutedStyle.Render(" (with warnings)")
		}
		cmd.Println(line)
	}
}
