package codes

import (
	"crypto/rand"
	"fmt"
)

// Prefixes for human-facing entity codes.
const (
	JewelryPrefix = "JWL"
	SessionPrefix = "AUC"
)

// alphabet omits 0/O and 1/I so codes survive being read over the phone.
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const suffixLength = 8

// New returns a code of the form PREFIX-XXXXXXXX. Uniqueness is enforced by
// the database; collisions at 32^8 are not worth retry logic here.
func New(prefix string) (string, error) {
	buf := make([]byte, suffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return fmt.Sprintf("%s-%s", prefix, buf), nil
}

// NewJewelryCode returns a fresh jewelry item code.
func NewJewelryCode() (string, error) {
	return New(JewelryPrefix)
}

// NewSessionCode returns a fresh auction session code.
func NewSessionCode() (string, error) {
	return New(SessionPrefix)
}
