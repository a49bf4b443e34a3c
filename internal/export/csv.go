// Package export renders test cases for external tools. The CSV layout
// matches the ALM Octane manual-test import format.
package export

import (
	"regexp"
	"strings"

	"testforge/internal/model"
)

// octaneHeaders is the fixed Octane import column set. Order matters.
var octaneHeaders = []string{
	"ID",
	"Has attachments",
	"Name",
	"Testing tool type",
	"Planned",
	"Passed",
	"Failed",
	"Requires Attention",
	"Test type",
	"Application modules",
	"Backlog Coverage",
	"Preconditions",
	"Test Steps",
	"Expected Result",
	"Priority",
}

var (
	numberedStepRe = regexp.MustCompile(`(\d+[.)]\s*)`)
	labeledStepRe  = regexp.MustCompile(`(Step\s*\d+[:.)]\s*)`)
	tripleNewlines = regexp.MustCompile(`\n{3,}`)
)

// RenderCSV renders the cases as Octane import CSV. Every field is quoted
// (the importer expects it) and records are separated by "\n", so
// multi-line steps stay inside their cell.
func RenderCSV(cases []model.TestCase) string {
	var b strings.Builder
	writeRecord(&b, octaneHeaders)

	for _, tc := range cases {
		writeRecord(&b, []string{
			tc.ID,
			"No",
			strings.TrimSpace(tc.Scenario),
			"Manual Runner",
			"", // Planned
			"", // Passed
			"", // Failed
			"", // Requires Attention
			tc.Type,
			"", // Application modules
			"", // Backlog Coverage
			strings.TrimSpace(tc.Preconditions),
			formatSteps(tc.Steps),
			strings.TrimSpace(tc.ExpectedResult),
			tc.Priority,
		})
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// formatSteps puts each numbered step on its own line so spreadsheet cells
// show one step per row.
func formatSteps(steps string) string {
	formatted := strings.TrimSpace(steps)
	if formatted == "" {
		return ""
	}

	if strings.Contains(formatted, "\n") {
		return tripleNewlines.ReplaceAllString(formatted, "\n\n")
	}

	formatted = insertNewlinesBefore(formatted, numberedStepRe)
	formatted = insertNewlinesBefore(formatted, labeledStepRe)
	return strings.TrimSpace(formatted)
}

// insertNewlinesBefore breaks the line before every marker match except
// one at the very start of the text.
func insertNewlinesBefore(text string, marker *regexp.Regexp) string {
	locs := marker.FindAllStringIndex(text, -1)
	if locs == nil {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		if loc[0] > 0 {
			b.WriteString(strings.TrimRight(text[prev:loc[0]], " \t"))
			b.WriteByte('\n')
		}
		prev = loc[0]
	}
	b.WriteString(text[prev:])
	return b.String()
}
