package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "b"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(8)
	assert.Len(t, s, 8)
	for _, r := range s {
		assert.True(t, r >= 'a' && r <= 'z')
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a \t b\n\nc "))
	assert.Equal(t, "", CollapseWhitespace("   "))
}

func TestFoldForMatch(t *testing.T) {
	assert.Equal(t, "wifi7", FoldForMatch("Wi-Fi 7"))
	assert.Equal(t, "ces2026", FoldForMatch("CES 2026"))
	assert.Equal(t, "", FoldForMatch(" - "))
}
