package text

import (
	"context"
	"io"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// SourcePatcher implements Patcher over plain source text
type SourcePatcher struct{}

// NewSourcePatcher creates a new SourcePatcher
func NewSourcePatcher() *SourcePatcher {
	return &SourcePatcher{}
}

// Patch implements Patcher.Patch
func (p *SourcePatcher) Patch(ctx context.Context, content io.Reader, rule Rule) (*Result, error) {
	if err := p.ValidateRule(rule); err != nil {
		return nil, errors.Errorf("validating rule: %w", err)
	}

	original, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &Result{
		OriginalContent: original,
		PatchedContent:  original,
	}

	var start, end int
	var found bool
	if rule.Function != "" {
		start, end, found = locateFunction(original, rule.Function)
	} else {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, errors.Errorf("compiling pattern: %w", err)
		}
		if loc := re.FindIndex(original); loc != nil {
			start, end, found = loc[0], loc[1], true
		}
	}

	// No match is not an error, callers inspect MatchCount
	if !found {
		return result, nil
	}

	patched := make([]byte, 0, len(original)-(end-start)+len(rule.Replacement))
	patched = append(patched, original[:start]...)
	patched = append(patched, rule.Replacement...)
	patched = append(patched, original[end:]...)

	result.PatchedContent = patched
	result.MatchCount = 1
	result.WasModified = string(patched) != string(original)
	return result, nil
}

// ValidateRule implements Patcher.ValidateRule
func (p *SourcePatcher) ValidateRule(rule Rule) error {
	if rule.Function == "" && rule.Pattern == "" {
		return errors.Errorf("one of function or pattern is required")
	}
	if rule.Function != "" && rule.Pattern != "" {
		return errors.Errorf("function and pattern are mutually exclusive")
	}
	if rule.Pattern != "" {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return errors.Errorf("compiling pattern: %w", err)
		}
	}
	return nil
}
