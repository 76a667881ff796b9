package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLHashGenerator_GenerateHash(t *testing.T) {
	gen := NewURLHashGenerator(8)
	h1 := gen.GenerateHash("https://example.com/app.js")
	h2 := gen.GenerateHash("https://example.com/app.js")

	assert.Len(t, h1, 8)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, gen.GenerateHash("https://example.com/other.js"))
}

func TestURLHashGenerator_DefaultLength(t *testing.T) {
	assert.Len(t, NewURLHashGenerator(0).GenerateHash("x"), 16)
	assert.Len(t, NewURLHashGenerator(100).GenerateHash("x"), 16)
}
