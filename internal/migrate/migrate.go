// Package migrate relocates settings that older CKPE builds kept in
// other sections.
package migrate

import (
	"fmt"
	"strings"

	"github.com/ckpe-tools/ckpectl/internal/errors"
	"github.com/ckpe-tools/ckpectl/internal/inifile"
	"github.com/ckpe-tools/ckpectl/internal/logging"
)

// Rule describes one legacy key relocation.
type Rule struct {
	// FromSection and FromKey locate the legacy entry.
	FromSection string
	FromKey     string
	// ToSection and ToKey are the current home for the value.
	ToSection string
	ToKey     string
	// Transform converts the legacy value; nil keeps it as is.
	Transform func(string) string
}

// DefaultRules are the known CKPE layout changes. Early builds kept
// everything under [CreationKit]; later ones split facegen, logging and
// theming into their own sections, and the dark-theme toggle became a
// theme id.
var DefaultRules = []Rule{
	{
		FromSection: "CreationKit", FromKey: "bUIDarkTheme",
		ToSection: "Theme", ToKey: "uUIDarkThemeId",
		Transform: boolToThemeID,
	},
	{
		FromSection: "CreationKit", FromKey: "uTintMaskResolution",
		ToSection: "Facegen", ToKey: "uTintMaskResolution",
	},
	{
		FromSection: "CreationKit", FromKey: "bDisableAutoFaceGen",
		ToSection: "Facegen", ToKey: "bDisableAutoFaceGen",
	},
	{
		FromSection: "CreationKit", FromKey: "sOutputFile",
		ToSection: "Log", ToKey: "sOutputFile",
	},
}

// boolToThemeID maps the legacy dark-theme toggle onto the theme id
// enum: false stays on the light theme, true selects the dark one.
func boolToThemeID(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "true") {
		return "1"
	}
	return "0"
}

// Migration records one applied rule.
type Migration struct {
	FromSection string `json:"from_section"`
	FromKey     string `json:"from_key"`
	ToSection   string `json:"to_section"`
	ToKey       string `json:"to_key"`
	Value       string `json:"value"`
}

// Report contains the results of a migration pass.
type Report struct {
	// Applied lists the migrations performed.
	Applied []Migration `json:"applied"`
	// Warnings contains non-fatal issues, e.g. targets already set.
	Warnings []string `json:"warnings,omitempty"`
}

// Empty reports whether the pass found nothing to do.
func (r *Report) Empty() bool {
	return len(r.Applied) == 0 && len(r.Warnings) == 0
}

// Apply relocates legacy entries in doc. nil rules means DefaultRules.
// Each migrated value is appended to its target section with a
// provenance comment, and the legacy line is commented out in place
// with a pointer to the new location, so a second pass finds nothing
// left to move.
func Apply(doc *inifile.Document, rules []Rule) (*Report, error) {
	if rules == nil {
		rules = DefaultRules
	}
	report := &Report{}

	for _, rule := range rules {
		entry, ok := doc.Find(rule.FromSection, rule.FromKey)
		if !ok {
			continue
		}

		if cur, exists := doc.Get(rule.ToSection, rule.ToKey); exists {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"[%s] %s: target [%s] %s already set to %q; leaving the legacy entry in place",
				rule.FromSection, rule.FromKey, rule.ToSection, rule.ToKey, cur))
			continue
		}

		value := entry.Value()
		if rule.Transform != nil {
			value = rule.Transform(value)
		}

		doc.Append(rule.ToSection, rule.ToKey, value,
			fmt.Sprintf("migrated from [%s]", rule.FromSection))
		note := fmt.Sprintf("migrated to [%s] %s", rule.ToSection, rule.ToKey)
		if err := doc.CommentOut(rule.FromSection, rule.FromKey, note); err != nil {
			return nil, errors.MigrateFailed(err)
		}

		report.Applied = append(report.Applied, Migration{
			FromSection: rule.FromSection,
			FromKey:     rule.FromKey,
			ToSection:   rule.ToSection,
			ToKey:       rule.ToKey,
			Value:       value,
		})
		logging.Debug("migrated setting",
			"from", rule.FromSection+"."+rule.FromKey,
			"to", rule.ToSection+"."+rule.ToKey,
			"value", value)
	}

	return report, nil
}
