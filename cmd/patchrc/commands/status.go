package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(factory OptsFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report which files the rules would change",
		Long: `Status is a dry run of apply: it locates every rule's target
region and reports which files would be rewritten, without writing
anything to disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			root, err := factory(ctx)
			if err != nil {
				return err
			}

			if err := runOperation(ctx, root, true); err != nil {
				return errors.Errorf("checking status: %w", err)
			}
			return nil
		},
	}

	return cmd
}
