package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fivetwenty-io/marvel-client/internal/page"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewComicPageCommand creates the comic-page command.
func NewComicPageCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "comic-page [COMIC_ID]",
		Short: "Assemble the data for a comic page",
		Long: `Assemble the page data for one comic: its cover, description,
characters and creators, plus the required attribution.

COMIC_ID defaults to MARVEL_COMIC_ID. --favorite-character defaults to
MARVEL_FAVORITE_CHARACTER_ID.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawID := viper.GetString("comic_id")
			if len(args) == 1 {
				rawID = args[0]
			}

			if rawID == "" {
				return ErrComicIDRequired
			}

			comicID, err := parseID(rawID)
			if err != nil {
				return err
			}

			favorite := 0
			if raw := viper.GetString("favorite_character_id"); raw != "" && raw != "0" {
				favorite, err = parseID(raw)
				if err != nil {
					return fmt.Errorf("favorite character: %w", err)
				}
			}

			return runWithSession(cmd, func(ctx context.Context, s *session) error {
				builder := page.NewBuilder(s.fetcher, page.WithLogger(s.logger), page.WithTitle(title))

				data, err := builder.Build(ctx, comicID, favorite)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), data, func(out io.Writer) error {
					return displayComicPage(out, data)
				})
			})
		},
	}

	cmd.Flags().Int("favorite-character", 0, "id of the character to highlight")
	cmd.Flags().StringVar(&title, "title", page.DefaultTitle, "page title")
	_ = viper.BindPFlag("favorite_character_id", cmd.Flags().Lookup("favorite-character"))

	return cmd
}

func displayComicPage(out io.Writer, data *page.Data) error {
	_, _ = fmt.Fprintf(out, "%s\n\n", data.PageTitle)

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")
	_ = table.Append("ID", strconv.FormatInt(data.Comic.ID, 10))
	_ = table.Append("Title", valueOrDefault(data.Comic.Title, NotAvailable))
	_ = table.Append("Description", valueOrDefault(truncate(data.Comic.Description), NotAvailable))
	_ = table.Append("Mobile Thumbnail", data.Comic.MobileThumbnail)
	_ = table.Append("Desktop Thumbnail", data.Comic.DesktopThumbnail)

	err := renderTable(table)
	if err != nil {
		return err
	}

	if len(data.Comic.Characters) > 0 {
		_, _ = fmt.Fprintln(out, "\nCharacters:")

		characters := tablewriter.NewWriter(out)
		characters.Header("ID", "Name", "Favorite", "Thumbnail")

		for _, character := range data.Comic.Characters {
			favorite := ""
			if character.Favorite {
				favorite = "*"
			}

			_ = characters.Append(strconv.FormatInt(character.ID, 10), character.Name, favorite, character.Thumbnail)
		}

		err = renderTable(characters)
		if err != nil {
			return err
		}
	}

	if len(data.Comic.Creators) > 0 {
		_, _ = fmt.Fprintln(out, "\nCreators:")

		creators := tablewriter.NewWriter(out)
		creators.Header("Name", "Role")

		for _, creator := range data.Comic.Creators {
			_ = creators.Append(creator.Name, valueOrDefault(creator.Role, NotAvailable))
		}

		err = renderTable(creators)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(out, "\n%s\n", data.AttributionText)

	return err
}
