// Package model holds the value types shared across the generation
// pipeline. Everything here is a plain struct with no behavior beyond
// copying; the packages that produce and consume these types live under
// internal/ alongside it.
package model

import "time"

// =============================================================================
// TEST CASE
// =============================================================================

// Priority levels recognized by the pipeline. Stored as plain strings so
// tolerant parsing can pass through whatever the model produced.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Test type labels. Every emitted case carries one of exactly these.
const (
	TypePositive   = "Positive"
	TypeNegative   = "Negative"
	TypeFunctional = "Functional"
)

// TestCase is a single manual test case. Steps and Preconditions are
// newline-separated text blocks, not slices; the exporters re-split them.
type TestCase struct {
	ID             string `json:"testCaseId"`
	Scenario       string `json:"testScenario"`
	Preconditions  string `json:"preconditions"`
	Steps          string `json:"testSteps"`
	ExpectedResult string `json:"expectedResult"`
	Priority       string `json:"priority"`
	Type           string `json:"testType"`
}

// Clone returns a value copy. TestCase has no reference fields today, but
// callers that hand cases across the cache boundary must not share memory
// with it, so they go through here.
func (tc TestCase) Clone() TestCase {
	return tc
}

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Result sources.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
	SourceDefault  = "default"
	SourceCache    = "cache"
)

// GenerationRequest carries the raw requirement text for one story.
// StoryKey may be empty or may be free text that embeds a Jira-style key;
// the pipeline extracts what it can.
type GenerationRequest struct {
	StoryKey           string
	UserStory          string
	AcceptanceCriteria string
	BusinessRules      string
	UserTag            string
	ForceRefresh       bool
}

// GenerationResult is what one pipeline run produces.
type GenerationResult struct {
	Cases       []TestCase
	Source      string
	Message     string
	StoryKey    string
	GeneratedAt time.Time
}

// Clone deep-copies the result, including the case slice.
func (r GenerationResult) Clone() GenerationResult {
	out := r
	out.Cases = make([]TestCase, len(r.Cases))
	for i, tc := range r.Cases {
		out.Cases[i] = tc.Clone()
	}
	return out
}
