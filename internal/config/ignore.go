// Package config loads application configuration and version-control ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadIgnorePatterns reads a gitignore-style file and returns its exclusion
// patterns. Blank lines and comments are skipped. Negation lines are skipped
// as well: exclusion is a strictly additive union of rules, so a rule source
// can never re-include a path excluded elsewhere. A missing file yields no
// patterns and no error.
func LoadIgnorePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		if strings.HasPrefix(trimmedLine, "!") {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}
