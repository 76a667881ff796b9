package datastore

import (
	"crypto/sha256"
	"encoding/hex"
)

// URLHashGenerator derives stable file names for target URLs
type URLHashGenerator struct {
	hashLength int
}

// NewURLHashGenerator creates a new URL hash generator
func NewURLHashGenerator(hashLength int) *URLHashGenerator {
	if hashLength <= 0 || hashLength > 64 {
		hashLength = 16
	}
	return &URLHashGenerator{
		hashLength: hashLength,
	}
}

// GenerateHash creates a unique hash for the URL
func (uhg *URLHashGenerator) GenerateHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:uhg.hashLength]
}
