package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`  {"a":1} `))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abc", 2))

	// "я" is two bytes; cutting inside it backs off to the rune start.
	got := Truncate("aяb", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "aя...", Truncate("aяb", 3))
	assert.True(t, utf8.ValidString(Truncate(strings.Repeat("отказ ", 100), 255)))
}

func TestSniffMimeHTTP(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffMimeHTTP([]byte{0xFF, 0xD8, 0xFF}))
	assert.Equal(t, "image/png", SniffMimeHTTP([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}))
	assert.Equal(t, "image/webp", SniffMimeHTTP([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
}

func TestPickMIME(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	assert.Equal(t, "image/webp", PickMIME("IMAGE/WEBP", png))
	assert.Equal(t, "image/png", PickMIME("application/octet-stream", png))
	assert.Equal(t, "image/jpeg", PickMIME("", []byte("plain text")))
}

func TestMakeDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQID", MakeDataURL("image/png", []byte{1, 2, 3}))
}

func TestParseSchema_Strict(t *testing.T) {
	m, err := ParseSchema("peel", `{
		"properties": {
			"present": {"type": "boolean"},
			"items": {"type": "array", "items": {"properties": {"b": {"type": "integer"}, "a": {"type": "string"}}}}
		}
	}`)
	require.NoError(t, err)

	assert.Equal(t, "object", m["type"])
	assert.Equal(t, false, m["additionalProperties"])
	assert.Equal(t, []any{"items", "present"}, m["required"])

	items := m["properties"].(map[string]any)["items"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
	assert.Equal(t, []any{"a", "b"}, items["required"])
}

func TestParseSchema_Bad(t *testing.T) {
	_, err := ParseSchema("broken", `{`)
	assert.Error(t, err)
}
