// Package cmd provides the CLI commands for ckpectl.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/config"
	"github.com/ckpe-tools/ckpectl/internal/logging"
	"github.com/ckpe-tools/ckpectl/internal/render"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// cfg is the tool configuration, loaded by the root pre-run and shared
// by every command.
var cfg = config.NewConfig()

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ckpectl",
	Short: "Manage the Creation Kit Platform Extended configuration",
	Long: `ckpectl reads, validates and edits CreationKitPlatformExtended.ini,
the configuration file of Creation Kit Platform Extended (CKPE).

Edits are schema-checked before they reach the file, saves are atomic
with timestamped backups, and everything outside the touched entries
survives byte for byte: comments, blank lines and ordering included.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
	PersistentPostRun: teardownRoot,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the ckpectl config file")
	rootCmd.PersistentFlags().String("ini", "", "Path to CreationKitPlatformExtended.ini")
	rootCmd.PersistentFlags().String("overlay", "", "Path to a schema overlay file")
	rootCmd.PersistentFlags().String("color", "", "Color output: auto, always or never")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("allow-any-name", false, "Skip the canonical INI file name check")
}

// setupRoot loads the tool configuration and wires logging and output
// styling before any command runs.
func setupRoot(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	applyColorMode(cmd)

	verbose, _ := cmd.Flags().GetBool("verbose")
	level := logging.ParseLevel(cfg.Log.Level)
	if verbose {
		level = logging.LevelDebug
	}
	logConfig := &logging.Config{
		Level:       level,
		LogDir:      cfg.Log.Dir,
		MaxLogFiles: 10,
		MaxLogAge:   7 * 24 * time.Hour,
		Console:     cfg.Log.Console || verbose,
		JSONFormat:  false,
	}
	if err := logging.InitGlobal(logConfig); err != nil {
		// Non-fatal: warn but continue without file logging
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
	} else {
		logging.Debug("ckpectl starting", "version", Version, "command", cmd.Name())
	}

	return nil
}

// teardownRoot flushes the log file after the command finishes.
func teardownRoot(cmd *cobra.Command, args []string) {
	_ = logging.CloseGlobal()
}

// applyColorMode resolves the --color flag against the configuration
// and the terminal, and enables or disables ANSI styling globally.
func applyColorMode(cmd *cobra.Command) {
	mode := cfg.Output.Color
	if flagMode, _ := cmd.Flags().GetString("color"); flagMode != "" {
		mode = config.ColorMode(flagMode)
	}

	switch mode {
	case config.ColorAlways:
		render.SetEnabled(true)
	case config.ColorNever:
		render.SetEnabled(false)
	default:
		fd := os.Stdout.Fd()
		render.SetEnabled(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Set version info here after main.go has set the variables.
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("ckpectl {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}
