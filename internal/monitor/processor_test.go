package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprinter(t *testing.T) {
	fp := NewFingerprinter(16)

	a := fp.Fingerprint([]byte("var a=1;"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, fp.Fingerprint([]byte("var a=1;")))
	assert.NotEqual(t, a, fp.Fingerprint([]byte("var a=2;")))
	assert.Regexp(t, "^[0-9a-f]{16}$", a)

	assert.Len(t, NewFingerprinter(0).Fingerprint([]byte("x")), 16)
	assert.Len(t, NewFingerprinter(4).Fingerprint([]byte("x")), 8)
	assert.Len(t, NewFingerprinter(100).Fingerprint([]byte("x")), 64)
	assert.Equal(t, a, NewFingerprinter(64).Fingerprint([]byte("var a=1;"))[:16])
}
