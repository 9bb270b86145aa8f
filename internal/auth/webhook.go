package auth

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const webhookSecretBytes = 24

// NewWebhookSecret returns a random secret and its bcrypt hash. Only the
// hash is persisted.
func NewWebhookSecret() (secret string, hash string, err error) {
	buf := make([]byte, webhookSecretBytes)

	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}

	secret = hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	return secret, string(hashed), nil
}

func CheckWebhookSecret(hash, secret string) bool {
	if hash == "" || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
