package marvel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/marvel-client/internal/constants"
)

// DefaultThumbnailVariant is the largest fixed-ratio image the gateway serves.
const DefaultThumbnailVariant = "detail"

var thumbnailVariants = map[string]struct{}{
	"portrait_small":       {},
	"portrait_medium":      {},
	"portrait_xlarge":      {},
	"portrait_fantastic":   {},
	"portrait_uncanny":     {},
	"portrait_incredible":  {},
	"standard_small":       {},
	"standard_medium":      {},
	"standard_large":       {},
	"standard_xlarge":      {},
	"standard_fantastic":   {},
	"standard_amazing":     {},
	"landscape_small":      {},
	"landscape_medium":     {},
	"landscape_large":      {},
	"landscape_xlarge":     {},
	"landscape_amazing":    {},
	"landscape_incredible": {},
	"detail":               {},
}

// ThumbnailVariants returns the accepted image variant names, sorted.
func ThumbnailVariants() []string {
	variants := make([]string, 0, len(thumbnailVariants))
	for variant := range thumbnailVariants {
		variants = append(variants, variant)
	}

	sort.Strings(variants)

	return variants
}

// IsThumbnailVariant reports whether variant is an accepted image variant.
func IsThumbnailVariant(variant string) bool {
	_, ok := thumbnailVariants[variant]

	return ok
}

// ThumbnailURL composes {path}/{variant}.{extension} from the thumbnail field.
// The path is read from the path key or, failing that, the url key. A
// missing or unusable thumbnail yields the gateway's placeholder image.
func (r *Resource) ThumbnailURL(ctx context.Context, variant string) (string, error) {
	if !IsThumbnailVariant(variant) {
		return "", fmt.Errorf("%w: %q", ErrInvalidThumbnailVariant, variant)
	}

	value, err := r.Get(ctx, FieldThumbnail)
	if err != nil && !errors.Is(err, ErrNoFetcher) {
		return "", err
	}

	path, extension, ok := thumbnailParts(value)
	if !ok {
		path, extension = constants.ImageNotAvailablePath, constants.ImageNotAvailableExtension
	}

	return fmt.Sprintf("%s/%s.%s", path, variant, extension), nil
}

func thumbnailParts(value Value) (string, string, bool) {
	thumbnail, ok := value.Map()
	if !ok {
		return "", "", false
	}

	path, _ := thumbnail["path"].(string)
	if path == "" {
		path, _ = thumbnail["url"].(string)
	}

	extension, _ := thumbnail["extension"].(string)

	path = strings.TrimRight(path, "/")
	extension = strings.TrimLeft(extension, ".")

	if path == "" || extension == "" {
		return "", "", false
	}

	return path, extension, true
}
