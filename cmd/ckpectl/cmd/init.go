package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/errors"
	"github.com/ckpe-tools/ckpectl/internal/render"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a fresh INI with schema defaults",
	Long: `Write a fresh CreationKitPlatformExtended.ini populated with the
schema defaults, each setting documented with its catalog comment.

The file uses CRLF line endings, matching what the Creation Kit itself
writes on Windows. Without a path argument the file is created in the
current directory. An existing file is never overwritten unless --force
is given.

Examples:
  ckpectl init
  ckpectl init "C:/Games/Skyrim SE"
  ckpectl init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

// runInit is the main entry point for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	path := target
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		path = filepath.Join(target, errors.CanonicalFileName)
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	sc, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := sc.WriteDefaults(&buf, "\r\n"); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WriteFailed(path, err)
	}

	cmd.Println(render.SuccessStyle.Render("Created " + path))
	cmd.Println("Edit it directly or with 'ckpectl set'; run 'ckpectl lint' to validate.")
	return nil
}
