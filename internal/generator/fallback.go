package generator

import (
	"fmt"
	"strings"

	"testforge/internal/analysis"
	"testforge/internal/model"
	"testforge/internal/workflow"
)

// MaxCases is the hard cap on generated test cases. Every producer in this
// package and the pipeline's final cap honor it.
const MaxCases = 8

// builder accumulates cases up to the cap, assigning sequential ids and
// running every step list through the login injector.
type builder struct {
	variant workflow.Variant
	cases   []model.TestCase
}

func (b *builder) full() bool {
	return len(b.cases) >= MaxCases
}

func (b *builder) add(scenario, steps, expected, priority, testType string) {
	if b.full() {
		return
	}
	b.cases = append(b.cases, model.TestCase{
		ID:             fmt.Sprintf("TC-%03d", len(b.cases)+1),
		Scenario:       scenario,
		Preconditions:  b.variant.Preconditions(),
		Steps:          PrependLogin(steps, b.variant),
		ExpectedResult: expected,
		Priority:       priority,
		Type:           testType,
	})
}

// Fallback derives test cases from the content analysis in strict priority
// order: business rules, acceptance criteria, main functionality (only when
// the first two produced nothing), the two standard negatives, the view
// case, exclusions, and finally edge-case padding.
func Fallback(a analysis.ContentAnalysis, v workflow.Variant) []model.TestCase {
	b := &builder{variant: v}

	for _, rule := range a.Rules {
		if b.full() {
			break
		}
		if rule.IsValidation {
			// validation rules exercise rejection paths
			b.add(rule.Scenario, validationRuleSteps(a, rule), validationRuleResult(rule),
				model.PriorityHigh, model.TypeNegative)
		} else {
			b.add(rule.Scenario, behavioralRuleSteps(a, rule), behavioralRuleResult(rule),
				model.PriorityHigh, model.TypeFunctional)
		}
	}

	for _, crit := range a.Criteria {
		if b.full() {
			break
		}
		b.add(crit.Scenario, criterionSteps(a, crit), criterionResult(crit),
			model.PriorityHigh, model.TypeFunctional)
	}

	if len(b.cases) == 0 {
		b.add(
			fmt.Sprintf("Verify user can %s %s successfully", a.Action, a.Entity),
			mainFunctionalitySteps(a),
			fmt.Sprintf("The %s operation completes successfully and the %s is saved with correct details", a.Action, a.Entity),
			model.PriorityHigh, model.TypePositive,
		)
	}

	b.add(
		"Verify error handling when mandatory fields are not provided",
		fmt.Sprintf("1. Navigate to the %s section\n2. Leave one or more mandatory fields empty\n3. Attempt to %s the %s", a.Entity, a.Action, a.Entity),
		fmt.Sprintf("System displays validation messages for the missing mandatory fields and does not save the %s", a.Entity),
		model.PriorityHigh, model.TypeNegative,
	)
	b.add(
		"Verify error handling when invalid data is entered",
		fmt.Sprintf("1. Navigate to the %s section\n2. Enter invalid data in the input fields\n3. Attempt to %s the %s", a.Entity, a.Action, a.Entity),
		"System rejects the invalid data with clear error messages and no partial data is saved",
		model.PriorityHigh, model.TypeNegative,
	)

	if a.HasViewOperation {
		fields := strings.Join(a.KeyFields, ", ")
		b.add(
			fmt.Sprintf("Verify user can view %s details with all key fields", a.Entity),
			fmt.Sprintf("1. Navigate to the %s section\n2. Open an existing %s\n3. Verify the displayed fields: %s", a.Entity, a.Entity, fields),
			fmt.Sprintf("All key fields (%s) are displayed with correct values", fields),
			model.PriorityMedium, model.TypeFunctional,
		)
	}

	for _, excl := range a.Exclusions {
		if b.full() {
			break
		}
		b.add(
			"Verify system prevents operations on excluded items: "+analysis.Truncate(excl, 100),
			fmt.Sprintf("1. Navigate to the %s section\n2. Attempt to %s involving: %s", a.Entity, a.Action, excl),
			"System prevents the operation and displays an appropriate message",
			model.PriorityMedium, model.TypeNegative,
		)
	}

	for _, hint := range a.EdgeCases {
		if b.full() {
			break
		}
		b.add(
			"Verify "+hint,
			fmt.Sprintf("1. Navigate to the %s section\n2. Exercise: %s\n3. Observe the system response", a.Entity, hint),
			"System handles the edge condition without errors or data corruption",
			model.PriorityMedium, model.TypeFunctional,
		)
	}

	return b.cases
}

// =============================================================================
// STEP AND RESULT TEXT
// =============================================================================

func validationRuleSteps(a analysis.ContentAnalysis, rule analysis.ParsedRule) string {
	return fmt.Sprintf(
		"1. Navigate to the %s section\n2. Enter data that satisfies the rule: %s\n3. Enter data that violates the rule\n4. Attempt to %s the %s",
		a.Entity, rule.Text, a.Action, a.Entity)
}

func validationRuleResult(rule analysis.ParsedRule) string {
	return "Valid data is accepted and invalid data is rejected with an appropriate validation message for: " +
		analysis.Truncate(rule.Text, 100)
}

func behavioralRuleSteps(a analysis.ContentAnalysis, rule analysis.ParsedRule) string {
	return fmt.Sprintf(
		"1. Navigate to the %s section\n2. Perform %s ensuring the condition: %s\n3. Save the changes",
		a.Entity, a.Action, rule.Text)
}

func behavioralRuleResult(rule analysis.ParsedRule) string {
	return "System enforces the business rule: " + analysis.Truncate(rule.Text, 100)
}

func criterionSteps(a analysis.ContentAnalysis, crit analysis.ParsedCriterion) string {
	return fmt.Sprintf(
		"1. Navigate to the %s section\n2. Prepare the data described in: %s\n3. Execute the %s operation\n4. Observe the system response",
		a.Entity, crit.Text, a.Action)
}

func criterionResult(crit analysis.ParsedCriterion) string {
	return "System behaves as specified: " + analysis.Truncate(crit.Text, 100)
}

func mainFunctionalitySteps(a analysis.ContentAnalysis) string {
	return fmt.Sprintf(
		"1. Navigate to the %s section\n2. Enter valid data in all required fields\n3. %s the %s",
		a.Entity, capitalize(a.Action), a.Entity)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
