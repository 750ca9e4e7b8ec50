package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/marvel-client/internal/constants"
	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// ListItem is one row of list output.
type ListItem struct {
	ID          int64  `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	ResourceURI string `json:"resourceURI" yaml:"resourceURI"`
}

// ListResult is the list output.
type ListResult struct {
	Kind   string     `json:"kind"   yaml:"kind"`
	Offset int        `json:"offset" yaml:"offset"`
	Total  int        `json:"total"  yaml:"total"`
	Items  []ListItem `json:"items"  yaml:"items"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		limit  int
		offset int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list KIND",
		Short: "List resources of one kind",
		Long: `List resources of one kind, one page at a time.

With --all every page is fetched. Unrolling large kinds such as comics
issues many requests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}

			if limit < 1 || limit > constants.MaxPageLimit {
				return fmt.Errorf("%w: %d", marvel.ErrInvalidLimit, limit)
			}

			return runWithSession(cmd, func(ctx context.Context, s *session) error {
				var result *ListResult
				if all {
					result, err = listAll(ctx, s.fetcher, kind, limit)
				} else {
					result, err = listPage(ctx, s.fetcher, kind, limit, offset)
				}

				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), result, func(out io.Writer) error {
					return displayListTable(out, result)
				})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageLimit, "page size (1-100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset of the first result")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func listPage(ctx context.Context, fetcher *marvel.Fetcher, kind string, limit, offset int) (*ListResult, error) {
	params := url.Values{}
	params.Set(constants.QueryLimit, strconv.Itoa(limit))
	params.Set(constants.QueryOffset, strconv.Itoa(offset))

	envelope, err := fetcher.RequestURL(ctx, kind, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	result := &ListResult{Kind: kind, Offset: offset}
	if envelope.Data == nil {
		return result, nil
	}

	result.Total = envelope.Data.Total

	for _, data := range envelope.Data.Results {
		resource, err := marvel.NewResource(data, fetcher, true)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", kind, err)
		}

		result.Items = append(result.Items, listItem(ctx, resource))
	}

	return result, nil
}

func listAll(ctx context.Context, fetcher *marvel.Fetcher, kind string, limit int) (*ListResult, error) {
	err := fetcher.SetDefaultLimit(limit)
	if err != nil {
		return nil, err
	}

	entities, err := fetcher.GetResourcesUnpaginated(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	result := &ListResult{Kind: kind, Total: len(entities)}
	for _, entity := range entities {
		result.Items = append(result.Items, listItem(ctx, entity.Base()))
	}

	return result, nil
}

// listItem reads only inlined fields so listing never triggers per-item loads.
func listItem(ctx context.Context, resource *marvel.Resource) ListItem {
	item := ListItem{ResourceURI: resource.ResourceURI()}

	fields := resource.Fields()
	if id, ok := fields[marvel.FieldID].Int(); ok {
		item.ID = id
	}

	if resource.Has(marvel.FieldName) || resource.Has(marvel.FieldTitle) {
		item.Name, _ = resource.Name(ctx)
	}

	return item
}

func displayListTable(out io.Writer, result *ListResult) error {
	table := tablewriter.NewWriter(out)
	table.Header("ID", "Name", "Resource URI")

	for _, item := range result.Items {
		_ = table.Append(strconv.FormatInt(item.ID, 10), truncate(item.Name), item.ResourceURI)
	}

	err := renderTable(table)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nShowing %d of %d %s from offset %d\n", len(result.Items), result.Total, result.Kind, result.Offset)

	return nil
}
