package generator

import (
	"fmt"
	"regexp"
	"strings"

	"testforge/internal/analysis"
	"testforge/internal/model"
	"testforge/internal/workflow"
)

var legacyRuleNumberRe = regexp.MustCompile(`(?i)BR\s*(\d+)`)

// legacyNegativeKeywords mark rules that get a rejection counterpart.
var legacyNegativeKeywords = []string{"format", "validate", "required", "number", "pattern", "length"}

// LegacyRuleCases generates one case per business rule line, plus a
// negative counterpart for format-style rules, capped at MaxCases.
//
// Deprecated: the content-analysis fallback (Fallback) supersedes this
// generator; it is retained for callers that only have rule text.
func LegacyRuleCases(rules string, v workflow.Variant) []model.TestCase {
	b := &builder{variant: v}

	line := 0
	for _, seg := range strings.Split(rules, "\n") {
		if b.full() {
			break
		}
		seg = strings.TrimSpace(seg)
		if len(seg) < 10 {
			continue
		}
		line++

		number := line
		if m := legacyRuleNumberRe.FindStringSubmatch(seg); m != nil {
			fmt.Sscanf(m[1], "%d", &number)
		}
		label := fmt.Sprintf("BR%d", number)

		b.add(
			fmt.Sprintf("Validate business rule %s: %s", label, analysis.Truncate(seg, 100)),
			fmt.Sprintf("1. Navigate to the relevant section\n2. Enter data covered by %s\n3. Save the record", label),
			fmt.Sprintf("System enforces %s: %s", label, analysis.Truncate(seg, 100)),
			model.PriorityHigh, model.TypeFunctional,
		)

		if b.full() || !containsAnyKeyword(strings.ToLower(seg), legacyNegativeKeywords) {
			continue
		}
		b.add(
			fmt.Sprintf("Verify rejection of data violating %s", label),
			fmt.Sprintf("1. Navigate to the relevant section\n2. Enter data violating %s\n3. Attempt to save the record", label),
			fmt.Sprintf("System rejects the data with a validation message for %s", label),
			model.PriorityMedium, model.TypeNegative,
		)
	}

	return b.cases
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
