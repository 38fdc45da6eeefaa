package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// signingSecretSize is the size in bytes of a generated signing secret.
const signingSecretSize = 32

// LoadSigningSecret resolves the token signing secret from its configured
// form. The value is base64. When kmsKeyURI is set the decoded bytes are
// treated as ciphertext and decrypted through the configured keeper
// (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://);
// otherwise the decoded bytes are the secret itself.
func LoadSigningSecret(ctx context.Context, encoded, kmsKeyURI string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("signing secret is not configured")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing secret: %w", err)
	}

	if kmsKeyURI == "" {
		if len(raw) < signingSecretSize {
			return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", signingSecretSize, len(raw))
		}
		return raw, nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	secret, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt signing secret: %w", err)
	}
	if len(secret) < signingSecretSize {
		return nil, fmt.Errorf("decrypted signing secret must be at least %d bytes, got %d", signingSecretSize, len(secret))
	}

	return secret, nil
}

// GenerateSigningSecret creates a new random signing secret and returns its
// base64 form ready for configuration. When kmsKeyURI is set the secret is
// encrypted through the keeper first, so the returned value is ciphertext.
func GenerateSigningSecret(ctx context.Context, kmsKeyURI string) (string, error) {
	secret := make([]byte, signingSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate signing secret: %w", err)
	}

	if kmsKeyURI == "" {
		return base64.StdEncoding.EncodeToString(secret), nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt signing secret: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
