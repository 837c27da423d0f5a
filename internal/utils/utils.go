package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID returns a random hex identifier of n bytes (2n characters).
func GenerateID(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
