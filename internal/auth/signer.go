// Package auth signs gateway requests with the public/private key pair.
package auth

import (
	"crypto/md5" //nolint:gosec // the gateway mandates an MD5 digest
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/fivetwenty-io/marvel-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrMissingPublicKey  = errors.New("public key is required")
	ErrMissingPrivateKey = errors.New("private key is required")
)

// Clock returns the current time. Tests replace it to get stable signatures.
type Clock func() time.Time

// Signer appends the ts, apikey and hash query parameters to outgoing requests.
type Signer struct {
	publicKey  string
	privateKey string
	clock      Clock
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock overrides the time source used for the ts parameter.
func WithClock(clock Clock) Option {
	return func(s *Signer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewSigner creates a signer for the given key pair.
func NewSigner(publicKey, privateKey string, opts ...Option) (*Signer, error) {
	if publicKey == "" {
		return nil, ErrMissingPublicKey
	}

	if privateKey == "" {
		return nil, ErrMissingPrivateKey
	}

	signer := &Signer{
		publicKey:  publicKey,
		privateKey: privateKey,
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt(signer)
	}

	return signer, nil
}

// PublicKey returns the public key sent as apikey.
func (s *Signer) PublicKey() string {
	return s.publicKey
}

// Sign sets the credential parameters on query, replacing any previous values.
func (s *Signer) Sign(query url.Values) {
	timestamp := strconv.FormatInt(s.clock().Unix(), 10)

	query.Set(constants.QueryTimestamp, timestamp)
	query.Set(constants.QueryAPIKey, s.publicKey)
	query.Set(constants.QueryHash, Hash(timestamp, s.privateKey, s.publicKey))
}

// Hash computes md5(timestamp + privateKey + publicKey) as lowercase hex.
func Hash(timestamp, privateKey, publicKey string) string {
	sum := md5.Sum([]byte(timestamp + privateKey + publicKey)) //nolint:gosec // required by the gateway

	return hex.EncodeToString(sum[:])
}
