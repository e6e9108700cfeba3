package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ckpe-tools/ckpectl/internal/config"
	"github.com/ckpe-tools/ckpectl/internal/render"
	"github.com/ckpe-tools/ckpectl/internal/store"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list [Section]",
	Short: "List effective settings",
	Long: `List the effective settings of the INI file.

Cataloged keys absent from the file show their schema default. Keys in
the file that the schema does not know appear with an inferred type.
Use --diverged to show only settings whose value differs from the
default.

Examples:
  ckpectl list
  ckpectl list CreationKit
  ckpectl list --diverged
  ckpectl list --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("diverged", false, "Show only settings that differ from their default")
	listCmd.Flags().String("format", "", "Output format: text or json")
}

// settingRow is one line of the listing.
type settingRow struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Default string `json:"default,omitempty"`
	Source  string `json:"source"`
}

// runList handles the list command.
func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	var sectionFilter string
	if len(args) == 1 {
		sectionFilter = args[0]
	}
	diverged, _ := cmd.Flags().GetBool("diverged")

	rows := collectRows(st, sectionFilter, diverged)

	if outputFormat(cmd) == config.FormatJSON {
		return printJSON(cmd, rows)
	}

	table := render.NewTable("SECTION", "KEY", "TYPE", "VALUE", "DEFAULT")
	for _, r := range rows {
		value := r.Value
		if r.Source == "default" {
			value = render.MutedStyle.Render(value)
		}
		table.AddRow(
			render.SectionStyle.Render(r.Section),
			render.KeyStyle.Render(r.Key),
			r.Type,
			value,
			render.MutedStyle.Render(r.Default),
		)
	}
	cmd.Print(table.Render())
	return nil
}

// collectRows merges the schema catalog with the file contents into
// listing rows, catalog order first, unknown file keys after.
func collectRows(st *store.Store, sectionFilter string, diverged bool) []settingRow {
	sc := st.Schema()
	doc := st.Document()
	rows := make([]settingRow, 0, 64)

	seen := make(map[string]bool)
	for _, spec := range sc.Specs() {
		if sectionFilter != "" && !strings.EqualFold(spec.Section, sectionFilter) {
			continue
		}
		row := settingRow{
			Section: spec.Section,
			Key:     spec.Key,
			Type:    string(spec.Type),
			Default: spec.Default,
		}
		if value, ok := doc.Get(spec.Section, spec.Key); ok {
			row.Value = value
			row.Source = "file"
		} else {
			row.Value = spec.Default
			row.Source = "default"
		}
		seen[strings.ToLower(spec.Section+"\x00"+spec.Key)] = true
		if diverged && (row.Source == "default" || row.Value == spec.Default) {
			continue
		}
		rows = append(rows, row)
	}

	// File entries the catalog does not know, in file order.
	for _, sec := range doc.Sections() {
		if sectionFilter != "" && !strings.EqualFold(sec.Name(), sectionFilter) {
			continue
		}
		for _, e := range sec.Entries() {
			if seen[strings.ToLower(sec.Name()+"\x00"+e.Key)] {
				continue
			}
			seen[strings.ToLower(sec.Name()+"\x00"+e.Key)] = true
			spec := sc.Spec(sec.Name(), e.Key, e.Value())
			rows = append(rows, settingRow{
				Section: sec.Name(),
				Key:     e.Key,
				Type:    string(spec.Type),
				Value:   e.Value(),
				Source:  "file",
			})
		}
	}

	return rows
}
