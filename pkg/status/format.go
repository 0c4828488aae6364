package status

import (
	"fmt"

	"github.com/fatih/color"
)

// FileFormatter defines how file operations and status should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a per-file status message
	FormatFileOperation(path string, status FileStatus, matches int) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a per-file status message with a colored symbol
func (f *DefaultFileFormatter) FormatFileOperation(path string, status FileStatus, matches int) string {
	switch status {
	case StatusPatched:
		return fmt.Sprintf("%s Patched %s (%d replacement(s))",
			color.New(color.FgGreen).Sprint("⟳"), path, matches)
	case StatusPending:
		return fmt.Sprintf("%s Would patch %s (%d replacement(s))",
			color.New(color.FgBlue).Sprint("•"), path, matches)
	case StatusUnchanged:
		return fmt.Sprintf("%s Unchanged %s",
			color.New(color.FgYellow).Sprint("-"), path)
	case StatusError:
		return fmt.Sprintf("%s Failed %s",
			color.New(color.FgRed).Sprint("✗"), path)
	default:
		return fmt.Sprintf("? %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message
func (f *DefaultFileFormatter) FormatError(err error) string {
	return fmt.Sprintf("❌ %v", err)
}
