package utils_test

import (
	"testing"

	"github.com/mkravets/richprompt/internal/utils"
)

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty", data: nil, expected: false},
		{name: "ascii text", data: []byte("plain text"), expected: false},
		{name: "utf8 text", data: []byte("héllo wörld"), expected: false},
		{name: "nul byte", data: []byte{'a', 0x00, 'b'}, expected: true},
		{name: "trailing nul", data: append([]byte("content"), 0x00), expected: true},
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0x00}, expected: true},
		{name: "lone continuation byte", data: []byte{0x89, 0x50, 0x4e}, expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.IsBinary(testCase.data)
			if result != testCase.expected {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}
