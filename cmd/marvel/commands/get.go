package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KIND ID",
		Short: "Get a single resource",
		Long: `Fetch a single resource by kind and id.

KIND is one of characters, comics, creators, events, series or stories.
Singular forms are accepted.`,
		Example: "  marvel get character 1009610\n  marvel get comics 21366 --output json",
		Args:    cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			return runWithSession(cmd, func(ctx context.Context, s *session) error {
				entity, err := s.fetcher.GetResource(ctx, kind, id)
				if err != nil {
					return fmt.Errorf("failed to get %s %d: %w", kind, id, err)
				}

				if entity == nil {
					return fmt.Errorf("%w: %s %d", ErrResourceNotFound, kind, id)
				}

				return renderResource(cmd.OutOrStdout(), entity.Base())
			})
		},
	}
}
