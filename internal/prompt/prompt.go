// Package prompt builds the system and user prompts for test-case
// generation and for the advisory requirement validation call.
package prompt

import (
	"fmt"
	"strings"

	"testforge/internal/model"
	"testforge/internal/workflow"
)

const generationContract = `You are a senior QA engineer who writes manual test cases for enterprise web applications.

Respond with a JSON array only. No prose, no markdown fences, no explanations.
Each element must have exactly these fields:
  "testCaseId"     - sequential id like "TC-001"
  "testScenario"   - one-line scenario description
  "preconditions"  - newline-separated preconditions
  "testSteps"      - numbered steps, one per line, starting with the login step
  "expectedResult" - the observable outcome
  "priority"       - "High", "Medium" or "Low"
  "testType"       - "Positive", "Negative" or "Functional"

Produce at most 8 test cases. Cover the business rules first, then the
acceptance criteria, then negative and boundary conditions. Do not repeat
scenarios.`

const validationSystem = `You review requirement text for testability.
Reply with a single line starting with VALID or INVALID, followed by a short reason.
VALID means the text is sufficient to derive concrete manual test cases.`

// GenerationSystem returns the system prompt, with the variant's workflow
// reference appended when available.
func GenerationSystem(v workflow.Variant, workflowContent string) string {
	var b strings.Builder
	b.WriteString(generationContract)

	if workflowContent != "" {
		b.WriteString("\n\nThe story belongs to the ")
		b.WriteString(string(v))
		b.WriteString(" workflow. Align the test steps with this reference workflow:\n\n")
		b.WriteString(workflowContent)
	}
	return b.String()
}

// GenerationUser renders the requirement sections, omitting empty ones.
func GenerationUser(req model.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Generate manual test cases for the following requirement.\n")

	writeSection(&b, "User Story", req.UserStory)
	writeSection(&b, "Acceptance Criteria", req.AcceptanceCriteria)
	writeSection(&b, "Business Rules", req.BusinessRules)

	return b.String()
}

// ValidationSystem returns the system prompt for the advisory check.
func ValidationSystem() string {
	return validationSystem
}

// ValidationUser renders the requirement for the advisory check.
func ValidationUser(req model.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Is the following requirement sufficient to derive test cases?\n")
	writeSection(&b, "User Story", req.UserStory)
	writeSection(&b, "Acceptance Criteria", req.AcceptanceCriteria)
	writeSection(&b, "Business Rules", req.BusinessRules)
	return b.String()
}

func writeSection(b *strings.Builder, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(b, "\n## %s\n%s\n", title, body)
}
