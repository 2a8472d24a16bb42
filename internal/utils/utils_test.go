package utils_test

import (
	"reflect"
	"testing"

	"github.com/mkravets/richprompt/internal/utils"
)

func TestDeduplicatePatterns(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "no duplicates", input: []string{"a", "b"}, expected: []string{"a", "b"}},
		{name: "duplicates removed", input: []string{"a", "b", "a", "c", "b"}, expected: []string{"a", "b", "c"}},
		{name: "empty", input: nil, expected: []string{}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.DeduplicatePatterns(testCase.input)
			if !reflect.DeepEqual(result, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

func TestContainsString(t *testing.T) {
	values := []string{".go", ".rs"}
	if !utils.ContainsString(values, ".go") {
		t.Fatal("expected .go to be found")
	}
	if utils.ContainsString(values, ".py") {
		t.Fatal("expected .py to be absent")
	}
	if utils.ContainsString(nil, ".go") {
		t.Fatal("expected nothing in a nil slice")
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
