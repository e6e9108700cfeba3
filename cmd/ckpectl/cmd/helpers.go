package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/backup"
	"github.com/ckpe-tools/ckpectl/internal/config"
	"github.com/ckpe-tools/ckpectl/internal/discover"
	"github.com/ckpe-tools/ckpectl/internal/hooks"
	"github.com/ckpe-tools/ckpectl/internal/logging"
	"github.com/ckpe-tools/ckpectl/internal/schema"
	"github.com/ckpe-tools/ckpectl/internal/store"
)

// parseSettingRef splits a setting reference out of the leading
// arguments. Both "Section.Key" and "Section Key" are accepted; the
// remaining arguments are returned untouched.
func parseSettingRef(args []string) (section, key string, rest []string, err error) {
	if len(args) == 0 {
		return "", "", nil, fmt.Errorf("missing setting reference (Section.Key)")
	}

	if before, after, found := strings.Cut(args[0], "."); found {
		if before == "" || after == "" {
			return "", "", nil, fmt.Errorf("invalid setting reference %q: want Section.Key", args[0])
		}
		return before, after, args[1:], nil
	}

	if len(args) < 2 {
		return "", "", nil, fmt.Errorf("invalid setting reference %q: want Section.Key or Section Key", args[0])
	}
	return args[0], args[1], args[2:], nil
}

// loadSchema returns the builtin catalog, extended by the --overlay
// file when one is given.
func loadSchema(cmd *cobra.Command) (*schema.Schema, error) {
	sc := schema.Builtin()
	overlay, _ := cmd.Flags().GetString("overlay")
	if overlay != "" {
		if err := sc.LoadOverlay(overlay); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// resolveIni locates the INI to operate on, honoring the --ini flag,
// the CKPECTL_INI environment variable, the tool config and finally a
// search of the working directory.
func resolveIni(cmd *cobra.Command) (string, error) {
	flag, _ := cmd.Flags().GetString("ini")
	return discover.Resolve(discover.Options{
		Flag:   flag,
		Config: cfg.Ini,
	})
}

// openStore opens the settings store for the resolved INI with the
// schema, backups and logging the configuration asks for.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, err := resolveIni(cmd)
	if err != nil {
		return nil, err
	}

	sc, err := loadSchema(cmd)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithSchema(sc),
		store.WithLogger(logging.Global()),
	}

	anyName, _ := cmd.Flags().GetBool("allow-any-name")
	if anyName || !cfg.StrictNames {
		opts = append(opts, store.WithAnyName())
	}

	if cfg.Backup.Enabled {
		dir := cfg.Backup.Dir
		if dir == "" {
			dir = backup.DefaultDir(path)
		}
		opts = append(opts, store.WithBackup(backup.NewManager(dir, cfg.Backup.Keep)))
	}

	return store.Open(path, opts...)
}

// outputFormat resolves the per-command --format flag against the
// configured default.
func outputFormat(cmd *cobra.Command) config.OutputFormat {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		return config.OutputFormat(f)
	}
	return cfg.Output.Format
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runPostSaveHooks runs the configured post-save commands and reports
// failures without undoing the save they follow.
func runPostSaveHooks(ctx context.Context, cmd *cobra.Command, iniPath string, changed []string) {
	if len(cfg.Hooks.PostSave) == 0 {
		return
	}

	runner := &hooks.Runner{Timeout: cfg.Hooks.Timeout}
	results := runner.Run(ctx, cfg.Hooks.PostSave, hooks.Context{
		IniPath: iniPath,
		Changed: changed,
	})
	for _, res := range results {
		if res.Ok() {
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: post-save hook failed (exit %d): %s\n", res.ExitCode, res.Command)
		if out := strings.TrimSpace(res.Output); out != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), out)
		}
	}
}
