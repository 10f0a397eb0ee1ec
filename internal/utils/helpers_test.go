package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestContextWindow(t *testing.T) {
	text := "aaaa  bbbb\n\ncccc TARGET dddd eeee"
	start := strings.Index(text, "TARGET")
	end := start + len("TARGET")

	assert.Equal(t, "aaaa bbbb cccc TARGET dddd eeee", ContextWindow(text, start, end, 100))
	assert.Equal(t, "...cc TARGET dd...", ContextWindow(text, start, end, 3))
}

func TestContextWindow_RuneSafe(t *testing.T) {
	text := "ééééé X ééééé"
	start := strings.Index(text, "X")
	got := ContextWindow(text, start, start+1, 2)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "...é X é...", got)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abcdef", 3))
	assert.Equal(t, "abc", TruncateRunes("abc", 3))
	assert.Equal(t, "ßß", TruncateRunes("ßßß", 2))
	assert.Equal(t, "abcdef", TruncateRunes("abcdef", 0))
}

func TestStrPtr(t *testing.T) {
	assert.Nil(t, StrPtr(""))
	assert.Equal(t, "x", StrOrEmpty(StrPtr("x")))
	assert.Equal(t, "", StrOrEmpty(nil))
}
