package generator

import (
	"testforge/internal/model"
	"testforge/internal/workflow"
)

// DefaultCases is the last-resort pair returned when neither the AI path
// nor the fallback produced anything: one happy path, one negative.
func DefaultCases(v workflow.Variant) []model.TestCase {
	return []model.TestCase{
		{
			ID:             "TC-001",
			Scenario:       "Verify the basic positive workflow completes successfully",
			Preconditions:  v.Preconditions(),
			Steps:          PrependLogin("1. Navigate to the relevant section\n2. Enter valid data in all required fields\n3. Submit the form", v),
			ExpectedResult: "The operation completes successfully and a confirmation is shown",
			Priority:       model.PriorityHigh,
			Type:           model.TypePositive,
		},
		{
			ID:             "TC-002",
			Scenario:       "Verify error handling with invalid input",
			Preconditions:  v.Preconditions(),
			Steps:          PrependLogin("1. Navigate to the relevant section\n2. Enter invalid data in the input fields\n3. Submit the form", v),
			ExpectedResult: "System displays appropriate error messages and does not save the data",
			Priority:       model.PriorityMedium,
			Type:           model.TypeNegative,
		},
	}
}
