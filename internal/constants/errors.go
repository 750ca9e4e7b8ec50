package constants

import "errors"

// Configuration errors.
var (
	ErrPublicKeyRequired  = errors.New("public key is required (set MARVEL_PUBLIC_KEY or 'marvel config set public_key')")
	ErrPrivateKeyRequired = errors.New("private key is required (set MARVEL_PRIVATE_KEY or 'marvel config set private_key')")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
)

// Validation errors.
var (
	ErrInvalidResourceID   = errors.New("resource id must be a positive integer")
	ErrUnsupportedResource = errors.New("unsupported resource type")
	ErrUnsupportedFormat   = errors.New("unsupported output format")
)
