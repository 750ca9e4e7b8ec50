package marvel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Malformed-input errors, raised while wrapping payloads.
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingResourceURI   = fmt.Errorf("%w: resource data is missing resourceURI", ErrMalformedPayload)
	ErrMissingName          = fmt.Errorf("%w: resource data is missing both name and title", ErrMalformedPayload)
	ErrMissingCollectionKey = fmt.Errorf("%w: collection data is missing a required key", ErrMalformedPayload)
	ErrMalformedResourceURI = errors.New("resourceURI is not a well-formed resource URL")
	ErrMalformedResponse    = errors.New("response body is not a valid gateway envelope")
)

// Unsafe-target errors.
var (
	ErrUnsafeURL = errors.New("refusing to send credentials to an untrusted URL")
)

// Invalid-parameter errors.
var (
	ErrInvalidLimit            = errors.New("limit must be a positive integer")
	ErrInvalidThumbnailVariant = errors.New("unknown thumbnail variant")
	ErrInvalidPath             = errors.New("invalid resolve path")
	ErrInvalidResourceKind     = errors.New("invalid resource kind")
)

// Contract and state errors.
var (
	ErrLoopOverflow       = errors.New("pagination loop overflow: total was never reached")
	ErrNoFetcher          = errors.New("no fetcher available to retrieve missing data")
	ErrReadOnlyCollection = errors.New("collections are read-only")
	ErrNoTransport        = errors.New("no transport configured")
	ErrConfigRequired     = errors.New("config is required")
)

// APIError represents an error body returned by the gateway.
//
// The gateway reports errors in two shapes: {"code": 409, "status": "..."}
// for request validation and {"code": "InvalidCredentials", "message": "..."}
// for authorization failures. Both decode into this type.
type APIError struct {
	StatusCode int    `json:"-"       yaml:"-"`
	Code       string `json:"code"    yaml:"code"`
	Message    string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("gateway error (status: %d): %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// UnmarshalJSON accepts numeric or string codes and either status or message text.
func (e *APIError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code    json.RawMessage `json:"code"`
		Status  string          `json:"status"`
		Message string          `json:"message"`
	}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("failed to unmarshal api error: %w", err)
	}

	e.Message = raw.Message
	if e.Message == "" {
		e.Message = raw.Status
	}

	if len(raw.Code) == 0 {
		return nil
	}

	var text string
	if json.Unmarshal(raw.Code, &text) == nil {
		e.Code = text

		return nil
	}

	var number int
	if json.Unmarshal(raw.Code, &number) == nil {
		e.Code = strconv.Itoa(number)
	}

	return nil
}

// Common gateway error codes.
const (
	ErrorCodeInvalidCredentials = "InvalidCredentials"
	ErrorCodeRequestThrottled   = "RequestThrottled"
	ErrorCodeMissingParameter   = "MissingParameter"
	ErrorCodeInvalidReferer     = "InvalidReferer"
)

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.Code == ErrorCodeInvalidCredentials
	}

	return false
}

// IsRateLimited checks if the error reports an exhausted request quota.
func IsRateLimited(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Code == ErrorCodeRequestThrottled
	}

	return false
}

// ParseAPIError parses an error response from JSON.
func ParseAPIError(statusCode int, data []byte) (*APIError, error) {
	apiErr := APIError{StatusCode: statusCode}

	err := json.Unmarshal(data, &apiErr)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	apiErr.StatusCode = statusCode

	return &apiErr, nil
}
