package utils

import (
	"bytes"
	"unicode/utf8"
)

// IsBinary reports whether data appears to be binary rather than text.
// Assembly reads whole files before rendering, so detection runs on the
// complete content: any invalid UTF-8 sequence or NUL byte marks it binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	return bytes.IndexByte(data, 0) >= 0
}
