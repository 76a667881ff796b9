package monitor

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	minFingerprintLength     = 8
	defaultFingerprintLength = 16
)

// Fingerprinter derives the content identity used as the version key.
// The digest is truncated; collisions at the configured length are accepted.
type Fingerprinter struct {
	length int
}

// NewFingerprinter creates a Fingerprinter producing length hex characters
func NewFingerprinter(length int) *Fingerprinter {
	switch {
	case length <= 0:
		length = defaultFingerprintLength
	case length < minFingerprintLength:
		length = minFingerprintLength
	case length > sha256.Size*2:
		length = sha256.Size * 2
	}
	return &Fingerprinter{length: length}
}

// Fingerprint returns the truncated SHA-256 hex digest of content
func (f *Fingerprinter) Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:f.length]
}
