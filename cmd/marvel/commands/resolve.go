package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/spf13/cobra"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve KIND ID PATH",
		Short: "Follow a dotted path through the object graph",
		Long: `Resolve a dotted path starting at one resource, fetching whatever
each hop needs. Numeric segments index into collections.`,
		Example: "  marvel resolve comics 21366 characters.0.name\n" +
			"  marvel resolve character 1009610 events.0.characters.1",
		Args: cobra.ExactArgs(3), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			path := args[2]

			return runWithSession(cmd, func(ctx context.Context, s *session) error {
				root, err := s.fetcher.GetResource(ctx, kind, id)
				if err != nil {
					return fmt.Errorf("failed to get %s %d: %w", kind, id, err)
				}

				if root == nil {
					return fmt.Errorf("%w: %s %d", ErrResourceNotFound, kind, id)
				}

				value, err := marvel.Walk(ctx, root, path)
				if err != nil {
					return err
				}

				if value.Kind() == marvel.KindEntity {
					return renderResource(cmd.OutOrStdout(), value.Entity().Base())
				}

				return render(cmd.OutOrStdout(), value.Interface(), func(out io.Writer) error {
					_, err := fmt.Fprintln(out, cell(value))

					return err
				})
			})
		},
	}
}
