// Package text implements the in-place patching engine: locating a
// region of source text (a named function definition or a raw regex
// match) and replacing the first occurrence with a literal string.
package text

import (
	"context"
	"io"
)

// Rule defines a single patch operation
type Rule struct {
	// Function is the name of a function whose first definition should
	// be replaced. The body is located with an exact brace-depth scan.
	Function string

	// Pattern is a raw regular expression. The first match is replaced.
	// Exactly one of Function or Pattern must be set.
	Pattern string

	// Replacement is the literal text substituted for the matched region
	Replacement string
}

// Result contains the outcome of applying a rule to content
type Result struct {
	// WasModified indicates if a replacement was made
	WasModified bool

	// MatchCount is the number of regions replaced (0 or 1, only the
	// first occurrence is ever touched)
	MatchCount int

	// OriginalContent is the content before the patch
	OriginalContent []byte

	// PatchedContent is the content after the patch
	PatchedContent []byte
}

// Patcher defines the interface for patch operations
type Patcher interface {
	// Patch applies a rule to the content.
	// Returns a Result containing the patched content and metadata.
	// A rule that matches nothing is not an error: the Result carries
	// MatchCount == 0 and the content is returned unchanged.
	Patch(ctx context.Context, content io.Reader, rule Rule) (*Result, error)

	// ValidateRule checks that a rule is well formed
	ValidateRule(rule Rule) error
}
