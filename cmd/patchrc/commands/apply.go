package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// OptsFactory builds RootOpts once flags are parsed
type OptsFactory func(ctx context.Context) (*opts.RootOpts, error)

// NewApplyCmd creates a new apply command
func NewApplyCmd(factory OptsFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply patch rules to target files in place",
		Long: `Apply runs every rule in the config against its target files.
It will:
1. Load and validate the configuration
2. Locate each rule's target region (function definition or regex match)
3. Replace the first occurrence and rewrite the file in place
4. Report per-file results and a final summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			root, err := factory(ctx)
			if err != nil {
				return err
			}

			if err := runOperation(ctx, root, false); err != nil {
				return errors.Errorf("applying patches: %w", err)
			}
			return nil
		},
	}

	return cmd
}

// runOperation wires up the patch (or dry-run) operation and reports
// results through the user logger.
func runOperation(ctx context.Context, root *opts.RootOpts, dryRun bool) error {
	logger := zerolog.Ctx(ctx)
	statusMgr := status.New(logger)

	operationOpts := operation.Options{
		Config:    root.Config,
		Patcher:   text.NewSourcePatcher(),
		StatusMgr: statusMgr,
		Logger:    logger,
	}

	newOp := operation.NewPatchOperation
	if dryRun {
		newOp = operation.NewStatusOperation
	}

	// Async mode splits the config into one operation per rule so the
	// runner can apply them concurrently.
	var ops []operation.Operation
	if root.Config.Async {
		for i := range root.Config.Rules {
			sub := *root.Config
			sub.Rules = root.Config.Rules[i : i+1]
			subOpts := operationOpts
			subOpts.Config = &sub

			op, err := newOp(subOpts)
			if err != nil {
				return errors.Errorf("creating operation: %w", err)
			}
			ops = append(ops, op)
		}
	} else {
		op, err := newOp(operationOpts)
		if err != nil {
			return errors.Errorf("creating operation: %w", err)
		}
		ops = append(ops, op)
	}

	runner := operation.NewRunner(logger, root.Config.Async)
	if err := runner.Run(ctx, ops...); err != nil {
		return err
	}

	files, err := statusMgr.ListFiles(ctx)
	if err != nil {
		return errors.Errorf("listing results: %w", err)
	}

	var patched, unchanged int
	for _, info := range files {
		root.UserLogger.LogFileResult(info)
		switch info.Status {
		case status.StatusPatched, status.StatusPending:
			patched++
		case status.StatusUnchanged:
			unchanged++
		}
	}
	if dryRun {
		root.UserLogger.LogDryRunSummary(patched, unchanged, statusMgr.TotalMatches(ctx))
	} else {
		root.UserLogger.LogRunSummary(patched, unchanged, statusMgr.TotalMatches(ctx))
	}

	return nil
}
