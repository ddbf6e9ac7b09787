package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator produces opaque credential strings from crypto/rand
type Generator struct{}

// NewGenerator creates a new Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a hex string carrying byteLength bytes of entropy
func (g *Generator) Generate(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("invalid token byte length %d", byteLength)
	}
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error reading random source: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
