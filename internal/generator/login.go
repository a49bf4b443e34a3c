// Package generator produces test cases deterministically from a content
// analysis. It backs the pipeline whenever the AI path fails or yields
// nothing, so everything here must work without network access.
package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"testforge/internal/workflow"
)

const (
	sscLoginStep     = "1. Login to SSC (Self Service Channel) application with valid credentials"
	genericLoginStep = "1. Login to the application with valid credentials"
)

var (
	stepNumberRe   = regexp.MustCompile(`^(\d+)\.\s*`)
	genericLoginRe = regexp.MustCompile(`(?i)^1\.\s*login to (the )?application[^\n]*`)
)

// PrependLogin ensures the step list starts with the variant's login step.
// Calling it on already-injected steps is a no-op, except that a generic
// login step is rewritten to the SSC wording for SSC variants.
func PrependLogin(steps string, v workflow.Variant) string {
	loginStep := genericLoginStep
	if v.UsesSSC() {
		loginStep = sscLoginStep
	}

	trimmed := strings.TrimSpace(steps)
	if trimmed == "" {
		return loginStep
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "1. login") || strings.Contains(lower, "login to") {
		if v.UsesSSC() && !strings.Contains(lower, "ssc") {
			return genericLoginRe.ReplaceAllString(trimmed, loginStep)
		}
		return trimmed
	}

	var b strings.Builder
	b.WriteString(loginStep)
	for _, line := range strings.Split(trimmed, "\n") {
		b.WriteByte('\n')
		if m := stepNumberRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			rest := stepNumberRe.ReplaceAllString(line, "")
			b.WriteString(fmt.Sprintf("%d. %s", n+1, rest))
		} else {
			b.WriteString(line)
		}
	}
	return b.String()
}
