package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testforge/internal/model"
)

const sampleArray = `[
  {"testCaseId": "TC-001", "testScenario": "Submit a valid request",
   "testSteps": "1. Open form\n2. Submit", "expectedResult": "Saved",
   "priority": "High", "testType": "Functional"}
]`

func TestParseBareArray(t *testing.T) {
	cases, skipped, err := Parse(sampleArray)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, "TC-001", cases[0].ID)
	assert.Equal(t, "Submit a valid request", cases[0].Scenario)
	assert.Equal(t, "High", cases[0].Priority)
}

func TestParseArrayInsideProse(t *testing.T) {
	raw := "Here are the generated test cases:\n" + sampleArray + "\nLet me know if you need more."
	cases, _, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "Submit a valid request", cases[0].Scenario)
}

func TestParseFencedArray(t *testing.T) {
	raw := "```json\n" + sampleArray + "\n```"
	cases, _, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cases, 1)
}

func TestParseEnvelopeObject(t *testing.T) {
	// the array nested inside an envelope is still found
	raw := `{"testCases": ` + sampleArray + `}`
	cases, _, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cases, 1)
}

func TestParseNestedArraysInsideSteps(t *testing.T) {
	raw := `[{"testScenario": "Check [bracketed] text", "testSteps": "1. Look at [1] and [2]"}]`
	cases, _, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "Check [bracketed] text", cases[0].Scenario)
}

func TestParseFieldDefaults(t *testing.T) {
	raw := `[{"testSteps": "1. Do it"}, {"scenario": null, "priority": 3}]`
	cases, _, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "TC-001", cases[0].ID)
	assert.Equal(t, "Test scenario not specified", cases[0].Scenario)
	assert.Equal(t, model.PriorityMedium, cases[0].Priority)
	assert.Equal(t, model.TypeFunctional, cases[0].Type)

	assert.Equal(t, "TC-002", cases[1].ID)
	assert.Equal(t, model.PriorityMedium, cases[1].Priority, "non-string priority falls back")
}

func TestParseAlternateFieldNames(t *testing.T) {
	raw := `[{"id": "X-1", "title": "Alt names", "steps": "1. Go",
	         "expected_result": "Done", "test_type": "Negative"}]`
	cases, _, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "X-1", cases[0].ID)
	assert.Equal(t, "Alt names", cases[0].Scenario)
	assert.Equal(t, "Done", cases[0].ExpectedResult)
	assert.Equal(t, "Negative", cases[0].Type)
}

func TestParseSkipsNonObjectElements(t *testing.T) {
	raw := `["just a string", {"testScenario": "Real case"}, 42]`
	cases, skipped, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, 2, skipped, "both non-object elements are counted")
	assert.Equal(t, "Real case", cases[0].Scenario)
	assert.Equal(t, "TC-002", cases[0].ID, "id keeps the element's array position")
}

func TestParseFailures(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":           "",
		"prose only":      "I could not generate test cases for this story.",
		"bare object":     `{"testScenario": "single case, not an array"}`,
		"empty array":     `[]`,
		"no object yield": `[1, 2, 3]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoJSONArray))
		})
	}
}
