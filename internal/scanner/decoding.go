package scanner

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// decodeLeniently converts raw file bytes to text, replacing invalid UTF-8 sequences.
func decodeLeniently(rawContent []byte) string {
	decodedContent, decodeError := unicode.UTF8.NewDecoder().Bytes(rawContent)
	if decodeError != nil {
		return strings.ToValidUTF8(string(rawContent), "")
	}
	return string(decodedContent)
}
