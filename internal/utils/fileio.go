package utils

import (
	"os"
	"strings"
	"unicode/utf8"
)

// BinaryPlaceholder is substituted for the contents of files that look binary.
const BinaryPlaceholder = "[binary file]"

// sniffLength caps how many bytes are inspected when detecting binary content.
const sniffLength = 8000

// IsBinary reports whether data appears to be binary rather than text.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sniff := data
	if len(sniff) > sniffLength {
		sniff = sniff[:sniffLength]
	}
	for _, b := range sniff {
		if b == 0 {
			return true
		}
	}
	return !utf8.Valid(sniff)
}

// ReadFileText reads a file as text, tolerating whatever is on disk: binary
// content is replaced by BinaryPlaceholder and invalid UTF-8 sequences are
// replaced rather than propagated.
func ReadFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if IsBinary(data) {
		return BinaryPlaceholder, nil
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
