package generator

import (
	"strings"
	"testing"

	"testforge/internal/analysis"
	"testforge/internal/model"
	"testforge/internal/workflow"
)

func TestPrependLoginRenumbersSteps(t *testing.T) {
	got := PrependLogin("1. Open the form\n2. Submit", workflow.VariantNone)
	want := "1. Login to the application with valid credentials\n2. Open the form\n3. Submit"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrependLoginIdempotent(t *testing.T) {
	once := PrependLogin("1. Open the form", workflow.VariantVS2)
	twice := PrependLogin(once, workflow.VariantVS2)
	if once != twice {
		t.Errorf("second injection changed steps:\n%s\nvs\n%s", once, twice)
	}
	if !strings.HasPrefix(once, "1. Login to SSC") {
		t.Errorf("VS2 steps should start with SSC login, got %q", once)
	}
}

func TestPrependLoginRewritesGenericToSSC(t *testing.T) {
	generic := "1. Login to the application with valid credentials\n2. Open the form"
	got := PrependLogin(generic, workflow.VariantVS4)
	if !strings.HasPrefix(got, "1. Login to SSC (Self Service Channel) application") {
		t.Errorf("generic login not rewritten for VS4:\n%s", got)
	}
	if !strings.Contains(got, "2. Open the form") {
		t.Errorf("following steps must be preserved:\n%s", got)
	}
}

func TestPrependLoginEmptySteps(t *testing.T) {
	if got := PrependLogin("", workflow.VariantNone); got != "1. Login to the application with valid credentials" {
		t.Errorf("empty steps should yield just the login step, got %q", got)
	}
}

func TestFallbackPriorityOrder(t *testing.T) {
	a := analysis.Analyze(
		"As an admin I want to submit a dealer request, view its status",
		"Acceptance Criteria:\n- The request appears in the overview list after submit",
		"BR1 - Amount format must be numeric",
	)
	cases := Fallback(a, workflow.VariantVS2)

	if len(cases) == 0 || len(cases) > MaxCases {
		t.Fatalf("expected 1..%d cases, got %d", MaxCases, len(cases))
	}
	if !strings.HasPrefix(cases[0].Scenario, "Validate: ") {
		t.Errorf("business rules come first, got %q", cases[0].Scenario)
	}
	if !strings.HasPrefix(cases[1].Scenario, "Verify: ") {
		t.Errorf("criteria come second, got %q", cases[1].Scenario)
	}

	var negatives int
	for i, tc := range cases {
		if tc.Type == model.TypeNegative {
			negatives++
		}
		if want := "TC-00" + string(rune('1'+i)); tc.ID != want {
			t.Errorf("case %d id = %q, want %q", i, tc.ID, want)
		}
		if !strings.HasPrefix(tc.Steps, "1. Login to SSC") {
			t.Errorf("case %s missing SSC login step:\n%s", tc.ID, tc.Steps)
		}
		if !strings.Contains(tc.Preconditions, "SSC") {
			t.Errorf("case %s missing SSC preconditions", tc.ID)
		}
	}
	if negatives < 2 {
		t.Errorf("expected the two standard negatives, got %d negative cases", negatives)
	}
}

func TestFallbackMainFunctionalityOnlyWhenEmpty(t *testing.T) {
	a := analysis.Analyze("user can create an account", "", "")
	cases := Fallback(a, workflow.VariantNone)
	if len(cases) == 0 {
		t.Fatal("expected cases")
	}
	if cases[0].Scenario != "Verify user can create User successfully" {
		t.Errorf("expected main functionality case first, got %q", cases[0].Scenario)
	}
}

func TestFallbackCategoryVocabulary(t *testing.T) {
	allowed := map[string]bool{
		model.TypePositive:   true,
		model.TypeNegative:   true,
		model.TypeFunctional: true,
	}
	a := analysis.Analyze(
		"submit a request with status and mandatory format fields",
		"- The submitted request must keep its status visible",
		"BR1 - Amount format must be numeric",
	)
	for _, tc := range Fallback(a, workflow.VariantNone) {
		if !allowed[tc.Type] {
			t.Errorf("case %s has category %q outside Positive/Negative/Functional", tc.ID, tc.Type)
		}
	}
}

func TestFallbackRuleAndNegativeShape(t *testing.T) {
	a := analysis.Analyze(
		"As an admin I want to submit a dealer request",
		"- The request appears in the overview list after submit",
		"BR1 - Amount format must be numeric",
	)
	cases := Fallback(a, workflow.VariantNone)
	if len(cases) < 4 {
		t.Fatalf("expected rule, criterion and the two negatives, got %d cases", len(cases))
	}

	if cases[0].Type != model.TypeNegative {
		t.Errorf("validation-rule case should be Negative, got %q", cases[0].Type)
	}
	if !strings.Contains(cases[1].Steps, "Execute the submit request operation") {
		t.Errorf("criterion steps must reference the detected action:\n%s", cases[1].Steps)
	}
	for _, tc := range cases {
		if tc.Type == model.TypeNegative && tc.Priority != model.PriorityHigh {
			t.Errorf("case %s: negatives are High priority, got %q", tc.ID, tc.Priority)
		}
	}
}

func TestFallbackHardCap(t *testing.T) {
	rules := strings.Repeat("this business rule text is long enough to keep\n", 20)
	a := analysis.Analyze("submit a request with status and mandatory format fields", "", rules)
	cases := Fallback(a, workflow.VariantNone)
	if len(cases) != MaxCases {
		t.Errorf("expected exactly %d cases, got %d", MaxCases, len(cases))
	}
}

func TestDefaultCases(t *testing.T) {
	cases := DefaultCases(workflow.VariantVS4)
	if len(cases) != 2 {
		t.Fatalf("expected 2 default cases, got %d", len(cases))
	}
	if cases[0].Type != model.TypePositive || cases[1].Type != model.TypeNegative {
		t.Errorf("expected positive then negative, got %q/%q", cases[0].Type, cases[1].Type)
	}
	if cases[0].ID != "TC-001" || cases[1].ID != "TC-002" {
		t.Errorf("unexpected ids %q/%q", cases[0].ID, cases[1].ID)
	}
	for _, tc := range cases {
		if !strings.HasPrefix(tc.Steps, "1. Login to SSC") {
			t.Errorf("default case %s missing SSC login", tc.ID)
		}
	}
}

func TestLegacyRuleCases(t *testing.T) {
	rules := "BR1 - The amount format must be numeric\nBR2 - Records are archived after a year"
	cases := LegacyRuleCases(rules, workflow.VariantNone)

	// BR1 gets a negative counterpart, BR2 does not
	if len(cases) != 3 {
		t.Fatalf("expected 3 cases, got %d: %+v", len(cases), cases)
	}
	if cases[1].Type != model.TypeNegative {
		t.Errorf("expected negative counterpart for BR1, got %q", cases[1].Type)
	}
	if !strings.Contains(cases[2].Scenario, "BR2") {
		t.Errorf("expected BR2 case, got %q", cases[2].Scenario)
	}
}

func TestLegacyRuleCasesCap(t *testing.T) {
	rules := strings.Repeat("the field format must match the required pattern\n", 10)
	cases := LegacyRuleCases(rules, workflow.VariantNone)
	if len(cases) != MaxCases {
		t.Errorf("expected cap at %d, got %d", MaxCases, len(cases))
	}
}
