// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🩹 NewPatchOperation creates an operation that patches files in place
func NewPatchOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &patchOperation{BaseOperation: base}, nil
}

// 🔍 NewStatusOperation creates a dry-run operation: it reports which
// files would change without writing anything.
func NewStatusOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &patchOperation{BaseOperation: base, dryRun: true}, nil
}

// 🩹 patchOperation implements the patch (and dry-run) operation
type patchOperation struct {
	BaseOperation
	dryRun bool
}

func (op *patchOperation) Name() string {
	if op.dryRun {
		return "status"
	}
	return "patch"
}

// target pairs one rule with one resolved file path
type target struct {
	rule *config.Rule
	path string
}

// 🏃 Execute runs the patch operation
func (op *patchOperation) Execute(ctx context.Context) error {
	targets, err := op.resolveTargets()
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	// Track progress
	op.StatusMgr.StartOperation(ctx, len(targets))
	defer op.StatusMgr.FinishOperation(ctx)

	matchesByRule := make(map[string]int, len(op.Config.Rules))
	for i, tgt := range targets {
		matches, err := op.processFile(ctx, tgt.rule, tgt.path)
		if err != nil {
			op.StatusMgr.TrackFile(ctx, tgt.path, status.FileInfo{
				Path:   tgt.path,
				Rule:   tgt.rule.Name,
				Status: status.StatusError,
				Error:  err,
			})
			return errors.Errorf("patching file %s: %w", tgt.path, err)
		}
		matchesByRule[tgt.rule.Name] += matches
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	// A rule that matched nothing anywhere is a warning, or an error
	// when the rule says it must match.
	for i := range op.Config.Rules {
		rule := &op.Config.Rules[i]
		if matchesByRule[rule.Name] > 0 {
			continue
		}
		if rule.MustMatch {
			return errors.Errorf("rule %s: no match found", rule.Name)
		}
		op.Logger.Warn().Str("rule", rule.Name).Msg("rule matched nothing")
	}

	return nil
}

// 🗺️ resolveTargets expands each rule's file entry into concrete paths
func (op *patchOperation) resolveTargets() ([]target, error) {
	var targets []target
	for i := range op.Config.Rules {
		rule := &op.Config.Rules[i]
		paths, err := op.resolveRule(rule)
		if err != nil {
			return nil, errors.Errorf("rule %s: %w", rule.Name, err)
		}
		for _, p := range paths {
			targets = append(targets, target{rule: rule, path: p})
		}
	}
	return targets, nil
}

// resolveRule returns the files a rule applies to. A plain path is
// returned as-is (a missing file surfaces later as a read error); a
// glob may legitimately match nothing.
func (op *patchOperation) resolveRule(rule *config.Rule) ([]string, error) {
	joined := filepath.Join(op.Config.Root, rule.File)
	if !strings.ContainsAny(rule.File, "*?[{") {
		return []string{joined}, nil
	}

	matches, err := doublestar.FilepathGlob(joined)
	if err != nil {
		return nil, errors.Errorf("expanding glob %q: %w", rule.File, err)
	}
	return matches, nil
}

// 📄 processFile applies a single rule to a single file and returns
// the number of replacements made.
func (op *patchOperation) processFile(ctx context.Context, rule *config.Rule, path string) (int, error) {
	replacement, err := op.loadReplacement(rule)
	if err != nil {
		return 0, errors.Errorf("loading replacement: %w", err)
	}

	content, mode, err := op.StatusMgr.ReadFile(ctx, path)
	if err != nil {
		return 0, errors.Errorf("reading target: %w", err)
	}

	result, err := op.Patcher.Patch(ctx, bytes.NewReader(content), text.Rule{
		Function:    rule.Function,
		Pattern:     rule.Pattern,
		Replacement: replacement,
	})
	if err != nil {
		return 0, errors.Errorf("applying rule: %w", err)
	}

	info := status.FileInfo{
		Path:     path,
		Rule:     rule.Name,
		Status:   status.StatusUnchanged,
		Matches:  result.MatchCount,
		Size:     int64(len(result.PatchedContent)),
		Mode:     mode,
		Checksum: status.Checksum(result.PatchedContent),
	}

	if result.WasModified {
		if op.dryRun {
			info.Status = status.StatusPending
		} else {
			if err := op.StatusMgr.WriteFileInPlace(ctx, path, result.PatchedContent, mode); err != nil {
				return 0, errors.Errorf("writing target: %w", err)
			}
			info.Status = status.StatusPatched
		}
	}

	op.StatusMgr.TrackFile(ctx, path, info)

	op.Logger.Debug().
		Str("rule", rule.Name).
		Str("path", path).
		Int("matches", result.MatchCount).
		Bool("modified", result.WasModified).
		Bool("dry_run", op.dryRun).
		Msg("processed file")

	return result.MatchCount, nil
}

// 📥 loadReplacement returns the rule's replacement text, reading it
// from replacement_file (relative to the config root) when set.
func (op *patchOperation) loadReplacement(rule *config.Rule) (string, error) {
	if rule.ReplacementFile == "" {
		return rule.Replacement, nil
	}
	data, err := os.ReadFile(filepath.Join(op.Config.Root, rule.ReplacementFile))
	if err != nil {
		return "", errors.Errorf("reading replacement file: %w", err)
	}
	// The trailing newline belongs to the replacement file, not the
	// replacement text. Keeping it would grow the target on every run.
	return strings.TrimSuffix(string(data), "\n"), nil
}
