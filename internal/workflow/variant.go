// Package workflow resolves which value-stream variant a story belongs to
// and serves the workflow reference content attached to each variant.
package workflow

import "strings"

// Variant identifies a value-stream workflow.
type Variant string

const (
	VariantVS2  Variant = "VS2"
	VariantVS4  Variant = "VS4"
	VariantNone Variant = ""
)

// variantMarkers is checked in order; the first variant with a marker hit
// in the key or story text wins.
var variantMarkers = []struct {
	variant Variant
	markers []string
}{
	{VariantVS2, []string{"vs2", "vs 2", "vs-2", "value stream 2", "valuestream 2"}},
	{VariantVS4, []string{"vs4", "vs 4", "vs-4", "value stream 4", "valuestream 4"}},
}

// Resolve determines the variant from the story key and the story text.
// The key is checked first; spelled-out and hyphenated forms all count.
func Resolve(storyKey, story string) Variant {
	for _, candidate := range []string{strings.ToLower(storyKey), strings.ToLower(story)} {
		if candidate == "" {
			continue
		}
		for _, vm := range variantMarkers {
			for _, marker := range vm.markers {
				if strings.Contains(candidate, marker) {
					return vm.variant
				}
			}
		}
	}
	return VariantNone
}

// UsesSSC reports whether the variant logs in through the Self Service
// Channel rather than the generic application login.
func (v Variant) UsesSSC() bool {
	return v == VariantVS2 || v == VariantVS4
}

// Preconditions returns the login precondition wording for the variant.
func (v Variant) Preconditions() string {
	if v.UsesSSC() {
		return "User has access to SSC (Self Service Channel) application and has necessary permissions to perform the required operations"
	}
	return "User has logged into the application and has necessary permissions to perform the required operations"
}
