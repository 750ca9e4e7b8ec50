package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/marvel-client/internal/constants"
	"github.com/fivetwenty-io/marvel-client/pkg/marvel"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Masked       = "***"

	// maxCellWidth truncates long descriptions in table output.
	maxCellWidth = 60
)

// Common static errors used throughout the commands package.
var (
	ErrInvalidID           = constants.ErrInvalidResourceID
	ErrUnknownKind         = constants.ErrUnsupportedResource
	ErrUnknownConfigKey    = constants.ErrUnknownConfigKey
	ErrUnknownOutputFormat = constants.ErrUnsupportedFormat
	ErrMissingPublicKey    = constants.ErrPublicKeyRequired
	ErrMissingPrivateKey   = constants.ErrPrivateKeyRequired
	ErrResourceNotFound    = errors.New("resource not found")
	ErrComicIDRequired     = errors.New("comic id is required (pass COMIC_ID or set MARVEL_COMIC_ID)")
	ErrInvalidRateLimit    = errors.New("rate limit must not be negative")
	ErrInvalidDefaultLimit = errors.New("default_limit must be between 1 and 100")
	ErrInvalidRetryMax     = errors.New("retry_max must be a non-negative integer")
)

func outputFormat() string {
	format := viper.GetString("output")
	if format == "" {
		return constants.FormatTable
	}

	return format
}

// render writes data as JSON or YAML, or calls table for the table format.
func render(out io.Writer, data interface{}, table func(io.Writer) error) error {
	switch outputFormat() {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", constants.JSONIndent)

		return encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(data)
	case constants.FormatTable:
		return table(out)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOutputFormat, outputFormat())
	}
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// headerize turns a field name such as "resourceURI" into "Resource URI".
func headerize(field string) string {
	var words []string

	start := 0

	for i := 1; i < len(field); i++ {
		if field[i] >= 'A' && field[i] <= 'Z' && field[i-1] >= 'a' && field[i-1] <= 'z' {
			words = append(words, field[start:i])
			start = i
		}
	}

	words = append(words, field[start:])

	for i, word := range words {
		if strings.ToUpper(word) == word {
			continue
		}

		words[i] = cases.Title(language.English).String(word)
	}

	return strings.Join(words, " ")
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}

	return id, nil
}

var kindAliases = map[string]string{
	"character": marvel.KindCharacters,
	"comic":     marvel.KindComics,
	"creator":   marvel.KindCreators,
	"event":     marvel.KindEvents,
	"story":     marvel.KindStories,
}

func parseKind(raw string) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := kindAliases[kind]; ok {
		return alias, nil
	}

	for _, known := range knownKinds() {
		if kind == known {
			return known, nil
		}
	}

	return "", fmt.Errorf("%w: %s (expected one of %s)", ErrUnknownKind, raw, strings.Join(knownKinds(), ", "))
}

func knownKinds() []string {
	return []string{
		marvel.KindCharacters,
		marvel.KindComics,
		marvel.KindCreators,
		marvel.KindEvents,
		marvel.KindSeries,
		marvel.KindStories,
	}
}

// cell renders a field value for table output without loading anything.
func cell(value marvel.Value) string {
	switch value.Kind() {
	case marvel.KindAbsent, marvel.KindNull:
		return NotAvailable
	case marvel.KindEntity:
		return value.Entity().ResourceURI()
	case marvel.KindCollection:
		collection := value.Collection()

		return fmt.Sprintf("%d %s (%d inline)", collection.Count(), collection.Type(), collection.Available())
	case marvel.KindScalar:
		return scalarCell(value.Scalar())
	default:
		return NotAvailable
	}
}

func scalarCell(raw interface{}) string {
	switch typed := raw.(type) {
	case string:
		if typed == "" {
			return NotAvailable
		}

		return truncate(typed)
	case map[string]interface{}, []interface{}:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return NotAvailable
		}

		return truncate(string(encoded))
	default:
		return fmt.Sprint(typed)
	}
}

func truncate(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= maxCellWidth {
		return text
	}

	return string(runes[:maxCellWidth-3]) + "..."
}

// renderResource prints every known field of resource.
func renderResource(out io.Writer, resource *marvel.Resource) error {
	return render(out, resource.Export(), func(out io.Writer) error {
		fields := resource.Fields()

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}

		sort.Strings(names)

		table := tablewriter.NewWriter(out)
		table.Header("Field", "Value")

		for _, name := range names {
			_ = table.Append(headerize(name), cell(fields[name]))
		}

		return renderTable(table)
	})
}
