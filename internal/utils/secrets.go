package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const jwtSecretBytes = 32 // 256-bit keys for HS256

// RandomHex returns n random bytes hex-encoded.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateJWTSecrets produces a fresh access/refresh secret pair. The two
// secrets are independent so a leaked access key cannot mint refresh tokens.
func GenerateJWTSecrets() (accessSecret, refreshSecret string, err error) {
	accessSecret, err = RandomHex(jwtSecretBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access secret: %w", err)
	}

	refreshSecret, err = RandomHex(jwtSecretBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}

	return accessSecret, refreshSecret, nil
}
