// Package userlog provides user-friendly console feedback for patchrc,
// layered over zerolog so every message also lands in the structured log.
package userlog

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/status"
)

func init() {
	// Enable debug output for development
	pterm.EnableDebugMessages()
}

// 📢 UserLogger provides user-friendly feedback about patch runs
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogFileResult logs the outcome of patching one file with
// appropriate emoji and formatting
func (u *UserLogger) LogFileResult(info status.FileInfo) {
	var printer *pterm.PrefixPrinter
	var action string
	switch info.Status {
	case status.StatusPatched:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "🩹"})
		action = fmt.Sprintf("Patched %s (%d replacement(s))", info.Path, info.Matches)
	case status.StatusPending:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"})
		action = fmt.Sprintf("Would patch %s (%d replacement(s))", info.Path, info.Matches)
	case status.StatusUnchanged:
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
		action = fmt.Sprintf("Unchanged %s", info.Path)
	case status.StatusError:
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
		action = fmt.Sprintf("Failed %s", info.Path)
	default:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "❓"})
		action = info.Path
	}

	if info.Rule != "" {
		action += fmt.Sprintf(" (%s)", info.Rule)
	}

	if info.Error != nil {
		printer.Println(action)
		pterm.Error.Println(info.Error)
		u.log.Error().Err(info.Error).Msg(action)
	} else {
		printer.Println(action)
		u.log.Info().Msg(action)
	}
}

// 📊 LogRunSummary logs the final result of a run
func (u *UserLogger) LogRunSummary(patched, unchanged, replacements int) {
	msg := fmt.Sprintf("Patched %d file(s), %d replacement(s), %d unchanged", patched, replacements, unchanged)
	pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(msg)
	u.log.Info().
		Int("patched", patched).
		Int("unchanged", unchanged).
		Int("replacements", replacements).
		Msg("run complete")
}

// 📊 LogDryRunSummary logs the final result of a dry run
func (u *UserLogger) LogDryRunSummary(pending, unchanged, replacements int) {
	msg := fmt.Sprintf("Would patch %d file(s), %d replacement(s), %d unchanged", pending, replacements, unchanged)
	pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"}).Println(msg)
	u.log.Info().
		Int("pending", pending).
		Int("unchanged", unchanged).
		Int("replacements", replacements).
		Msg("dry run complete")
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	} else {
		if err != nil {
			pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
			pterm.Error.Println(err)
			u.log.Error().Err(err).Msg(description)
		} else {
			pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
			u.log.Warn().Msg(description)
		}
	}
}
