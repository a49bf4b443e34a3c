// Package analysis turns semi-structured requirement text into the
// structured facts the deterministic generator works from: parsed business
// rules and acceptance criteria, the dominant action and entity, exclusion
// clauses, and edge-case hints.
//
// All keyword matching runs over lowercased text through ordered lookup
// tables; the first matching row wins, so table order is part of the
// contract.
package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// ParsedRule is one business rule lifted out of the rules text.
type ParsedRule struct {
	Label        string // "BR1", "BR2", ...
	Text         string // rule text with the label prefix stripped
	IsValidation bool   // mentions format/must/required/validation
	Scenario     string // "Validate: <text>"
}

// ParsedCriterion is one acceptance criterion line.
type ParsedCriterion struct {
	Text     string // line with list markers and Gherkin keywords stripped
	Scenario string // "Verify: <text>"
}

// ContentAnalysis is everything the analyzer extracted from one request.
type ContentAnalysis struct {
	Rules            []ParsedRule
	Criteria         []ParsedCriterion
	Action           string
	Entity           string
	Exclusions       []string
	EdgeCases        []string
	KeyFields        []string
	HasViewOperation bool
}

// =============================================================================
// KEYWORD TABLES
// =============================================================================

type keywordRule struct {
	// all terms must be present; any needs at least one hit. A row with
	// both empty never matches and must not appear in a table.
	all   []string
	any   []string
	label string
}

func (r keywordRule) matches(text string) bool {
	for _, term := range r.all {
		if !strings.Contains(text, term) {
			return false
		}
	}
	if len(r.any) == 0 {
		return len(r.all) > 0
	}
	for _, term := range r.any {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Compound actions come first so "submit a request" does not collapse to
// the bare "submit" row.
var actionTable = []keywordRule{
	{all: []string{"submit", "request"}, label: "submit request"},
	{all: []string{"add", "new"}, label: "add new record"},
	{all: []string{"save", "draft"}, label: "save as draft"},
	{all: []string{"view", "capture", "submit"}, label: "view, capture and submit"},
	{all: []string{"submit"}, label: "submit"},
	{all: []string{"create"}, label: "create"},
	{all: []string{"add"}, label: "add"},
	{any: []string{"update", "edit"}, label: "update"},
	{any: []string{"delete", "remove"}, label: "delete"},
	{all: []string{"save"}, label: "save"},
	{any: []string{"view", "display"}, label: "view"},
	{any: []string{"search", "find"}, label: "search"},
	{all: []string{"approve"}, label: "approve"},
	{all: []string{"reject"}, label: "reject"},
	{all: []string{"cancel"}, label: "cancel"},
	{all: []string{"process"}, label: "process"},
}

var entityTable = []keywordRule{
	{all: []string{"dealer"}, label: "Authorised Dealer"},
	{all: []string{"treasury"}, label: "Treasury record"},
	{all: []string{"outsourcing"}, label: "Outsourcing Company"},
	{all: []string{"broker"}, label: "Broker"},
	{all: []string{"customer"}, label: "Customer"},
	{all: []string{"user"}, label: "User"},
	{all: []string{"account"}, label: "Account"},
	{all: []string{"transaction"}, label: "Transaction"},
	{all: []string{"request"}, label: "Request"},
	{all: []string{"application"}, label: "Application"},
	{all: []string{"report"}, label: "Report"},
}

var keyFieldTable = []keywordRule{
	{all: []string{"submission number"}, label: "Submission Number"},
	{all: []string{"status"}, label: "Status"},
	{all: []string{"date"}, label: "Date"},
	{all: []string{"name"}, label: "Name"},
	{all: []string{"type"}, label: "Type"},
}

var validationKeywords = []string{"format", "must", "required", "validation"}

var (
	ruleLabelRe      = regexp.MustCompile(`(?i)BR\s*\d+`)
	ruleLabelPrefix  = regexp.MustCompile(`(?i)^BR\s*\d+\s*[-:]*\s*`)
	punctuationOnly  = regexp.MustCompile(`^[\s\-\*\|]+$`)
	listMarkerPrefix = regexp.MustCompile(`^[-\*\d\.\)]+\s*`)
	gherkinPrefix    = regexp.MustCompile(`(?i)^(Given|When|Then|And)\s+`)
	exclusionSplit   = regexp.MustCompile(`[,.\n]`)
)

// =============================================================================
// ANALYZER
// =============================================================================

// Analyze extracts structured facts from the raw requirement text. The
// dominant action and entity come from the story alone; criteria and rules
// text routinely mention other operations and must not flip them.
func Analyze(story, criteria, rules string) ContentAnalysis {
	storyText := strings.ToLower(story)
	combined := strings.ToLower(story + "\n" + criteria + "\n" + rules)

	a := ContentAnalysis{
		Rules:    ParseBusinessRules(rules),
		Criteria: ParseAcceptanceCriteria(criteria),
		Action:   dominantAction(storyText),
		Entity:   dominantEntity(storyText),
	}
	a.Exclusions = extractExclusions(combined)
	a.EdgeCases = extractEdgeCases(combined, a.Action)
	a.HasViewOperation = strings.Contains(combined, "view") ||
		strings.Contains(combined, "display") ||
		strings.Contains(combined, "retrieve")
	if a.HasViewOperation {
		a.KeyFields = extractKeyFields(combined)
	}
	return a
}

// ParseBusinessRules splits the rules text into labeled rules. Segments
// shorter than 10 characters, header rows, and punctuation-only separators
// are dropped.
func ParseBusinessRules(rules string) []ParsedRule {
	if strings.TrimSpace(rules) == "" {
		return nil
	}

	var out []ParsedRule
	for _, line := range strings.Split(rules, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "business rule") && strings.Contains(lower, "description") {
			continue // table header row, checked before cell splitting
		}
		for _, seg := range strings.Split(line, "|") {
			out = appendRule(out, seg)
		}
	}
	return out
}

func appendRule(out []ParsedRule, seg string) []ParsedRule {
	seg = strings.TrimSpace(seg)
	if len(seg) < 10 || punctuationOnly.MatchString(seg) {
		return out
	}

	label := ruleLabelRe.FindString(seg)
	if label != "" {
		label = strings.ToUpper(strings.ReplaceAll(label, " ", ""))
	} else {
		label = fmt.Sprintf("BR%d", len(out)+1)
	}

	text := strings.TrimSpace(ruleLabelPrefix.ReplaceAllString(seg, ""))
	if text == "" {
		return out
	}

	return append(out, ParsedRule{
		Label:        label,
		Text:         text,
		IsValidation: containsAny(strings.ToLower(text), validationKeywords),
		Scenario:     "Validate: " + Truncate(text, 100),
	})
}

// ParseAcceptanceCriteria splits the criteria text into verifiable lines.
// Lines shorter than 15 characters and the section header are dropped;
// list markers and leading Gherkin keywords are stripped.
func ParseAcceptanceCriteria(criteria string) []ParsedCriterion {
	if strings.TrimSpace(criteria) == "" {
		return nil
	}

	var out []ParsedCriterion
	for _, line := range strings.Split(criteria, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 15 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "acceptance criteria") && len(line) < 30 {
			continue
		}

		text := listMarkerPrefix.ReplaceAllString(line, "")
		text = gherkinPrefix.ReplaceAllString(text, "")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		out = append(out, ParsedCriterion{
			Text:     text,
			Scenario: "Verify: " + Truncate(text, 100),
		})
	}
	return out
}

func dominantAction(text string) string {
	for _, rule := range actionTable {
		if rule.matches(text) {
			return rule.label
		}
	}
	return "perform operation"
}

func dominantEntity(text string) string {
	for _, rule := range entityTable {
		if rule.matches(text) {
			return rule.label
		}
	}
	return "record"
}

func extractExclusions(text string) []string {
	var out []string

	if idx := strings.Index(text, "excluding"); idx >= 0 {
		rest := text[idx+len("excluding"):]
		if parts := exclusionSplit.Split(rest, 2); len(parts) > 0 {
			clause := strings.TrimSpace(parts[0])
			if len(clause) > 5 && len(clause) < 100 {
				out = append(out, clause)
			}
		}
	}
	if strings.Contains(text, "interbank broker") {
		out = append(out, "interbank brokers")
	}
	if containsAny(text, []string{"must not", "cannot", "prohibited"}) && strings.Contains(text, "without") {
		out = append(out, "operations without required entities")
	}

	return dedupStrings(out)
}

func extractEdgeCases(text, action string) []string {
	var out []string
	if strings.Contains(text, "status") {
		out = append(out, action+" with different status values (Active/Inactive)")
	}
	if strings.Contains(text, "mandatory") || strings.Contains(text, "required") {
		out = append(out, "boundary testing for mandatory fields")
	}
	if strings.Contains(text, "format") {
		out = append(out, "format validation with edge case data")
	}
	return out
}

func extractKeyFields(text string) []string {
	var out []string
	for _, rule := range keyFieldTable {
		if rule.matches(text) {
			out = append(out, rule.label)
		}
	}
	if len(out) == 0 {
		out = []string{"all required fields"}
	}
	return out
}

// Truncate shortens s to max runes, appending an ellipsis when it cut
// anything off.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func dedupStrings(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
