package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/render"
	"github.com/ckpe-tools/ckpectl/internal/schema"
)

// schemaCmd groups the schema inspection commands.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the settings schema",
	Long: `Inspect the settings schema: the catalog of known CKPE settings
with their types, defaults, ranges, enum options and documentation.

A user overlay given with --overlay extends or overrides the builtin
catalog for every subcommand.`,
}

// schemaListCmd lists every cataloged setting.
var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cataloged settings",
	Args:  cobra.NoArgs,
	RunE:  runSchemaList,
}

// schemaShowCmd shows one spec in detail.
var schemaShowCmd = &cobra.Command{
	Use:   "show <Section.Key | Section Key>",
	Short: "Show one setting's full specification",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSchemaShow,
}

// schemaExportCmd writes the effective schema as YAML.
var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the effective schema as YAML",
	Args:  cobra.NoArgs,
	RunE:  runSchemaExport,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaExportCmd)

	schemaExportCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
}

// runSchemaList handles schema list.
func runSchemaList(cmd *cobra.Command, args []string) error {
	sc, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	table := render.NewTable("SECTION", "KEY", "TYPE", "DEFAULT", "CONSTRAINT")
	for _, spec := range sc.Specs() {
		table.AddRow(
			render.SectionStyle.Render(spec.Section),
			render.KeyStyle.Render(spec.Key),
			string(spec.Type),
			spec.Default,
			render.MutedStyle.Render(constraintText(spec)),
		)
	}
	cmd.Print(table.Render())
	return nil
}

// constraintText summarizes a spec's range or enum for the listing.
func constraintText(spec *schema.KeySpec) string {
	switch {
	case len(spec.Enum) > 0:
		return fmt.Sprintf("%d options", len(spec.Enum))
	case spec.Min != nil && spec.Max != nil:
		return fmt.Sprintf("%d..%d", *spec.Min, *spec.Max)
	case spec.Max != nil:
		return fmt.Sprintf("..%d", *spec.Max)
	case spec.Min != nil:
		return fmt.Sprintf("%d..", *spec.Min)
	case spec.FreeText:
		return "free text"
	default:
		return ""
	}
}

// runSchemaShow handles schema show.
func runSchemaShow(cmd *cobra.Command, args []string) error {
	section, key, _, err := parseSettingRef(args)
	if err != nil {
		return err
	}

	sc, err := loadSchema(cmd)
	if err != nil {
		return err
	}
	spec, ok := sc.Lookup(section, key)
	if !ok {
		return fmt.Errorf("no cataloged setting %s.%s", section, key)
	}

	cmd.Println(render.SectionStyle.Render("["+spec.Section+"]") + " " + render.KeyStyle.Render(spec.Key))
	cmd.Printf("  Type:     %s\n", spec.Type)
	cmd.Printf("  Default:  %s\n", spec.Default)
	if spec.Min != nil || spec.Max != nil {
		cmd.Printf("  Range:    %s\n", constraintText(spec))
	}
	if len(spec.Enum) > 0 {
		cmd.Println("  Options:")
		for _, o := range spec.Enum {
			cmd.Printf("    %s = %s\n", render.ValueStyle.Render(strconv.Itoa(o.Value)), o.Label)
		}
	}
	if spec.FreeText {
		cmd.Println("  Free text: any value accepted")
	}
	if spec.Doc != "" {
		cmd.Println("  " + render.MutedStyle.Render(spec.Doc))
	}
	return nil
}

// runSchemaExport handles schema export.
func runSchemaExport(cmd *cobra.Command, args []string) error {
	sc, err := loadSchema(cmd)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return sc.ExportYAML(cmd.OutOrStdout())
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := sc.ExportYAML(f); err != nil {
		return err
	}
	cmd.Println(render.SuccessStyle.Render("Wrote " + out))
	return nil
}
