package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/backup"
	"github.com/ckpe-tools/ckpectl/internal/render"
)

// backupCmd groups the snapshot commands.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage INI snapshots",
	Long: `Manage the timestamped snapshots ckpectl takes before each save.

Snapshots live in .ckpectl/backups next to the INI unless the
configuration points elsewhere; the oldest are pruned beyond the
configured keep count.`,
}

// backupListCmd lists snapshots.
var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

// backupRestoreCmd restores one snapshot.
var backupRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a snapshot over the INI",
	Long: `Restore a snapshot over the INI file.

A snapshot of the current file is taken first, so a restore is itself
undoable.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}

// backupManager builds the snapshot manager for the resolved INI.
func backupManager(cmd *cobra.Command) (*backup.Manager, string, error) {
	path, err := resolveIni(cmd)
	if err != nil {
		return nil, "", err
	}
	dir := cfg.Backup.Dir
	if dir == "" {
		dir = backup.DefaultDir(path)
	}
	return backup.NewManager(dir, cfg.Backup.Keep), path, nil
}

// runBackupList handles backup list.
func runBackupList(cmd *cobra.Command, args []string) error {
	mgr, _, err := backupManager(cmd)
	if err != nil {
		return err
	}

	snapshots, err := mgr.List()
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		cmd.Println("No snapshots.")
		return nil
	}

	table := render.NewTable("NAME", "CREATED", "SIZE")
	for _, s := range snapshots {
		table.AddRow(
			render.KeyStyle.Render(s.File),
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			render.MutedStyle.Render(byteSize(s.Size)),
		)
	}
	cmd.Print(table.Render())
	return nil
}

// byteSize formats a file size for the listing.
func byteSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// runBackupRestore handles backup restore.
func runBackupRestore(cmd *cobra.Command, args []string) error {
	mgr, iniPath, err := backupManager(cmd)
	if err != nil {
		return err
	}

	// Snapshot the current file first so the restore can be undone.
	if _, err := mgr.Snapshot(iniPath); err != nil {
		return err
	}

	if err := mgr.Restore(args[0], iniPath); err != nil {
		return err
	}
	cmd.Println(render.SuccessStyle.Render("Restored " + args[0] + " over " + iniPath))
	return nil
}
