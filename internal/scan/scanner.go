package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/mkravets/richprompt/internal/config"
	"github.com/mkravets/richprompt/internal/utils"
)

// Options controls a directory scan.
type Options struct {
	// Extensions is the exact, case-sensitive extension allow-list, each entry
	// carrying its leading dot. An empty list admits every extension.
	Extensions []string
	// UseGitignore enables discovery of per-directory ignore files, each of
	// which applies only to its own subtree.
	UseGitignore bool
}

// SkippedEntry records a path that could not be inspected and the cause.
type SkippedEntry struct {
	Path  string
	Cause error
}

// Result holds the outcome of a scan: candidate files in deterministic
// depth-first, name-sorted order, plus any entries skipped along the way.
type Result struct {
	Files   []string
	Skipped []SkippedEntry
}

// Scan walks rootPath depth-first and returns every non-excluded file that
// passes the extension filter, as slash-separated paths relative to the root.
// An unreadable or nonexistent root is fatal; an unreadable subdirectory is
// recorded as a skipped entry and the scan continues.
func Scan(rootPath string, matcher *Matcher, options Options) (*Result, error) {
	rootInfo, rootStatError := os.Stat(rootPath)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return nil, fmt.Errorf("root path %s does not exist", rootPath)
		}
		return nil, fmt.Errorf("unable to read root path %s: %w", rootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", rootPath)
	}

	result := &Result{}
	scanDirectory(rootPath, "", matcher, options, result)
	return result, nil
}

// scanDirectory processes one directory level. When gitignore handling is
// enabled, an ignore file found here is compiled into a rule set scoped to
// this subtree, pushed for the duration of the recursion and popped on exit.
func scanDirectory(absoluteDirectoryPath, relativeDirectoryPath string, matcher *Matcher, options Options, result *Result) {
	if options.UseGitignore {
		ignoreFilePath := filepath.Join(absoluteDirectoryPath, utils.GitIgnoreFileName)
		ignoreLines, loadError := config.LoadIgnorePatterns(ignoreFilePath)
		if loadError != nil {
			result.Skipped = append(result.Skipped, SkippedEntry{Path: ignoreFilePath, Cause: loadError})
		} else if len(ignoreLines) > 0 {
			scopedPatterns, compileError := CompilePatterns(ignoreLines, OriginIgnoreFile)
			if compileError != nil {
				result.Skipped = append(result.Skipped, SkippedEntry{Path: ignoreFilePath, Cause: compileError})
			} else {
				matcher.PushScope(relativeDirectoryPath, scopedPatterns)
				defer matcher.PopScope()
			}
		}
	}

	directoryEntries, readDirectoryError := os.ReadDir(absoluteDirectoryPath)
	if readDirectoryError != nil {
		result.Skipped = append(result.Skipped, SkippedEntry{Path: relativeDirectoryPath, Cause: readDirectoryError})
		return
	}

	for _, directoryEntry := range directoryEntries {
		relativeEntryPath := path.Join(relativeDirectoryPath, directoryEntry.Name())
		if matcher.Excluded(relativeEntryPath, directoryEntry.IsDir()) {
			continue
		}
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if directoryEntry.IsDir() {
			childDirectoryPath := filepath.Join(absoluteDirectoryPath, directoryEntry.Name())
			scanDirectory(childDirectoryPath, relativeEntryPath, matcher, options, result)
			continue
		}
		if !directoryEntry.Type().IsRegular() {
			continue
		}
		if !extensionAllowed(directoryEntry.Name(), options.Extensions) {
			continue
		}
		result.Files = append(result.Files, relativeEntryPath)
	}
}

// extensionAllowed applies the extension allow-list to a file name.
// The extension is the suffix starting at the last dot, compared exactly.
func extensionAllowed(fileName string, allowedExtensions []string) bool {
	if len(allowedExtensions) == 0 {
		return true
	}
	return utils.ContainsString(allowedExtensions, filepath.Ext(fileName))
}
