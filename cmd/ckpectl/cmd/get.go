package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/errors"
)

// getCmd represents the get command.
var getCmd = &cobra.Command{
	Use:   "get <Section.Key | Section Key>",
	Short: "Read a setting",
	Long: `Read a setting from the INI file.

When the key is cataloged but absent from the file, the schema default
is returned. Use --raw to read only what the file literally contains,
and --label to resolve an enum value to its option label.

Examples:
  ckpectl get CreationKit.bSkipFileCheck
  ckpectl get CreationKit nCharset --label
  ckpectl get Facegen.uTintMaskResolution --raw`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().Bool("raw", false, "Read the file value only, without default fallback")
	getCmd.Flags().Bool("label", false, "Resolve an enum value to its option label")
}

// runGet handles the get command.
func runGet(cmd *cobra.Command, args []string) error {
	section, key, _, err := parseSettingRef(args)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetBool("raw")
	label, _ := cmd.Flags().GetBool("label")

	if raw {
		value, ok := st.Document().Get(section, key)
		if !ok {
			return errors.KeyNotFound(section, key)
		}
		cmd.Println(value)
		return nil
	}

	if label {
		value, err := st.EnumLabel(section, key)
		if err != nil {
			return err
		}
		cmd.Println(value)
		return nil
	}

	value, err := st.Raw(section, key)
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}
