// Package extract pulls a JSON array of test cases out of raw LLM output.
// Models wrap their JSON in prose, markdown fences, or envelopes, so the
// array is located through an ordered cascade of increasingly permissive
// patterns, then decoded tolerantly with per-field defaults.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"testforge/internal/model"
)

// ErrNoJSONArray is returned when no pattern in the cascade yields a
// parseable JSON array. A bare JSON object at the root counts as this
// failure; it is never coerced into a single-element array.
var ErrNoJSONArray = errors.New("no JSON array found in response")

const defaultScenario = "Test scenario not specified"

var (
	minimalArrayRe = regexp.MustCompile(`(?s)\[\s*\{.*?\}\s*\]`)
	jsonFenceRe    = regexp.MustCompile("(?s)```json\\s*(\\[.*?\\])\\s*```")
	anyFenceRe     = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(\\[.*?\\])\\s*```")
	greedyArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// Parse extracts test cases from a raw model response. Candidates from the
// cascade are tried in order until one parses as a JSON array; elements
// that are not objects are skipped and reported through the skipped count
// so callers can log them. An array yielding zero cases fails.
func Parse(raw string) (cases []model.TestCase, skipped int, err error) {
	for _, candidate := range candidates(raw) {
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &elements); err != nil {
			continue
		}
		cases := decodeElements(elements)
		if len(cases) == 0 {
			continue
		}
		return cases, len(elements) - len(cases), nil
	}
	return nil, 0, ErrNoJSONArray
}

// candidates runs the location cascade. Tighter patterns come first so a
// clean response never pays for the greedy scans.
func candidates(raw string) []string {
	var out []string

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		out = append(out, trimmed)
	}
	if m := minimalArrayRe.FindString(raw); m != "" {
		out = append(out, m)
	}
	if m := balancedArray(raw); m != "" {
		out = append(out, m)
	}
	if m := jsonFenceRe.FindStringSubmatch(raw); m != nil {
		out = append(out, m[1])
	}
	if m := anyFenceRe.FindStringSubmatch(raw); m != nil {
		out = append(out, m[1])
	}
	if m := greedyArrayRe.FindString(raw); m != "" {
		out = append(out, m)
	}

	return out
}

// balancedArray scans from the first '[' counting bracket depth, ignoring
// brackets inside string literals, and returns the balanced slice.
func balancedArray(raw string) string {
	start := strings.IndexByte(raw, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}
	return ""
}

func decodeElements(elements []json.RawMessage) []model.TestCase {
	var out []model.TestCase
	for i, elem := range elements {
		var obj fields
		if err := json.Unmarshal(elem, &obj); err != nil {
			continue // non-object element
		}
		out = append(out, model.TestCase{
			ID:             obj.text(fmt.Sprintf("TC-%03d", i+1), "id", "testCaseId", "test_case_id"),
			Scenario:       obj.text(defaultScenario, "scenario", "testScenario", "title", "name"),
			Preconditions:  obj.text("", "preconditions"),
			Steps:          obj.text("", "steps", "testSteps", "test_steps"),
			ExpectedResult: obj.text("", "expectedResult", "expected_result", "expected"),
			Priority:       obj.text(model.PriorityMedium, "priority"),
			Type:           obj.text(model.TypeFunctional, "testType", "type", "test_type"),
		})
	}
	return out
}

// fields is the typed intermediate over one decoded array element. Lookups
// never panic; missing, null, or non-string values fall back to the
// caller's default.
type fields map[string]any

func (f fields) text(def string, keys ...string) string {
	for _, key := range keys {
		v, ok := f[key]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}
