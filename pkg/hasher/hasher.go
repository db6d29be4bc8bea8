package hasher

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// HashKey bcrypt-hashes an API key for storage in configuration.
func HashKey(key []byte) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(key, 10)
	return string(bytes), err
}

// PasswordCorrect reports whether the presented secret matches the stored
// bcrypt hash.
func PasswordCorrect(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// GenerateToken returns a random URL-safe token of the given byte length.
func GenerateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
