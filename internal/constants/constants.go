package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoint defaults.
const (
	// DefaultAPIEndpoint is the public Marvel Comics gateway.
	DefaultAPIEndpoint = "https://gateway.marvel.com/v1/public"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "marvel-client/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination limits.
const (
	// DefaultPageLimit is the page size used when unrolling collections.
	// The gateway rejects limits above MaxPageLimit.
	DefaultPageLimit = 100

	// MaxPageLimit is the largest page size the gateway accepts.
	MaxPageLimit = 100

	// SingleResourceLimit is applied when a request carries neither limit nor offset.
	SingleResourceLimit = 1

	// MaxPaginationIterations bounds every pagination loop.
	MaxPaginationIterations = 1000
)

// HTTP status codes commonly used.
const (
	// HTTPStatusBadRequest is the lowest status treated as an error response.
	HTTPStatusBadRequest = 400
)

// Image placeholder used when a resource has no usable thumbnail.
const (
	ImageNotAvailablePath      = "http://i.annihil.us/u/prod/marvel/i/mg/b/40/image_not_available"
	ImageNotAvailableExtension = "jpg"
)

// Query parameter names understood by the gateway.
const (
	QueryLimit     = "limit"
	QueryOffset    = "offset"
	QueryTimestamp = "ts"
	QueryAPIKey    = "apikey"
	QueryHash      = "hash"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndent is the indentation used for JSON output.
	JSONIndent = "  "
)

// Command line argument counts.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2
)
