package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/spf13/cobra"
)

// NewThumbnailCommand creates the thumbnail command.
func NewThumbnailCommand() *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "thumbnail KIND ID",
		Short: "Print a resource thumbnail URL",
		Long: "Print the thumbnail URL of a resource in one of the gateway image variants: " +
			strings.Join(marvel.ThumbnailVariants(), ", "),
		Args: cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			if !marvel.IsThumbnailVariant(variant) {
				return fmt.Errorf("%w: %q", marvel.ErrInvalidThumbnailVariant, variant)
			}

			return runWithSession(cmd, func(ctx context.Context, s *session) error {
				entity, err := s.fetcher.GetResource(ctx, kind, id)
				if err != nil {
					return fmt.Errorf("failed to get %s %d: %w", kind, id, err)
				}

				if entity == nil {
					return fmt.Errorf("%w: %s %d", ErrResourceNotFound, kind, id)
				}

				thumbnail, err := entity.Base().ThumbnailURL(ctx, variant)
				if err != nil {
					return err
				}

				data := map[string]string{"variant": variant, "url": thumbnail}

				return render(cmd.OutOrStdout(), data, func(out io.Writer) error {
					_, err := fmt.Fprintln(out, thumbnail)

					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&variant, "variant", marvel.DefaultThumbnailVariant, "image variant")

	return cmd
}
