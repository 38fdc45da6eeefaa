package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCreateSigningSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("plain", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateSigningSecret(ctx, &out, "")

		require.NoError(t, err)
		require.Contains(t, out.String(), "SIGNING_SECRET")

		secret := extractSecret(t, out.String())
		decoded, err := base64.StdEncoding.DecodeString(secret)
		require.NoError(t, err)
		require.Len(t, decoded, 32)
	})

	t.Run("with-kms-key", func(t *testing.T) {
		keyURI := "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

		var out bytes.Buffer
		err := RunCreateSigningSecret(ctx, &out, keyURI)

		require.NoError(t, err)
		require.Contains(t, out.String(), keyURI)

		// Ciphertext is longer than the raw 32-byte secret.
		secret := extractSecret(t, out.String())
		decoded, err := base64.StdEncoding.DecodeString(secret)
		require.NoError(t, err)
		require.Greater(t, len(decoded), 32)
	})

	t.Run("invalid-kms-key", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateSigningSecret(ctx, &out, "base64key://not-valid-base64!")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to generate signing secret")
	})
}

// extractSecret returns the first line of output that parses as a bare
// base64 value.
func extractSecret(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, " ") {
			continue
		}
		return line
	}
	t.Fatal("no secret found in output")
	return ""
}
