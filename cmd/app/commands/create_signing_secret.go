package commands

import (
	"context"
	"fmt"
	"io"

	tokenService "github.com/allisson/reportgate/internal/token/service"
)

// RunCreateSigningSecret generates a new token signing secret and prints it.
// When kmsKeyURI is set, the secret is encrypted with the referenced keeper
// before encoding, matching what LoadSigningSecret expects at startup.
// Rotating the secret invalidates every outstanding signed URL at once.
func RunCreateSigningSecret(ctx context.Context, out io.Writer, kmsKeyURI string) error {
	secret, err := tokenService.GenerateSigningSecret(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to generate signing secret: %w", err)
	}

	fmt.Fprintln(out, "Signing secret generated. Set it as SIGNING_SECRET:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, secret)
	if kmsKeyURI != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Encrypted with KMS key: %s\n", kmsKeyURI)
		fmt.Fprintln(out, "Keep KMS_KEY_URI set to the same key so the server can decrypt it.")
	}

	return nil
}
