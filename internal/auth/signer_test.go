package auth_test

import (
	"crypto/md5" //nolint:gosec // mirrors the gateway digest
	"encoding/hex"
	"net/url"
	"testing"
	"time"

	"github.com/fivetwenty-io/marvel-client/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		publicKey  string
		privateKey string
		wantErr    error
	}{
		{name: "valid keys", publicKey: "public", privateKey: "private"},
		{name: "missing public key", privateKey: "private", wantErr: auth.ErrMissingPublicKey},
		{name: "missing private key", publicKey: "public", wantErr: auth.ErrMissingPrivateKey},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			signer, err := auth.NewSigner(testCase.publicKey, testCase.privateKey)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, signer)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.publicKey, signer.PublicKey())
		})
	}
}

func TestSigner_Sign(t *testing.T) {
	t.Parallel()

	fixed := time.Unix(1700000000, 0)

	signer, err := auth.NewSigner("public", "private", auth.WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	query := url.Values{"limit": []string{"5"}, "ts": []string{"stale"}}
	signer.Sign(query)

	sum := md5.Sum([]byte("1700000000privatepublic")) //nolint:gosec // mirrors the gateway digest

	assert.Equal(t, "1700000000", query.Get("ts"))
	assert.Equal(t, "public", query.Get("apikey"))
	assert.Equal(t, hex.EncodeToString(sum[:]), query.Get("hash"))
	assert.Equal(t, "5", query.Get("limit"))
	assert.Len(t, query["ts"], 1)
}

func TestHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ffd275c5130566a2916217b101f26150", auth.Hash("1", "abcd", "1234"))
}
