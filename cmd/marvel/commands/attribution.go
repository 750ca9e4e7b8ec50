package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewAttributionCommand creates the attribution command.
func NewAttributionCommand() *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "attribution",
		Short: "Print the data attribution",
		Long:  "Print the attribution text that must accompany displayed gateway data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSession(cmd, func(ctx context.Context, s *session) error {
				text, err := s.fetcher.GetAttributionText(ctx, html)
				if err != nil {
					return fmt.Errorf("failed to get attribution: %w", err)
				}

				data := map[string]string{"attribution": text}

				return render(cmd.OutOrStdout(), data, func(out io.Writer) error {
					_, err := fmt.Fprintln(out, text)

					return err
				})
			})
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "print the HTML attribution")

	return cmd
}
