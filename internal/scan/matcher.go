// Package scan implements exclusion matching and directory traversal for
// candidate file discovery.
package scan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PatternOrigin identifies where an exclusion pattern came from, for diagnostics.
type PatternOrigin string

const (
	// OriginFlag marks patterns supplied explicitly through configuration or flags.
	OriginFlag PatternOrigin = "flag"
	// OriginIgnoreFile marks patterns discovered in version-control ignore files.
	OriginIgnoreFile PatternOrigin = "ignore-file"
)

const pathSegmentSeparator = "/"

// Pattern is a compiled exclusion rule. It is immutable once compiled.
type Pattern struct {
	Raw    string
	Origin PatternOrigin

	segments      []string
	directoryOnly bool
}

// CompilePattern normalizes and validates a single exclusion pattern.
// Malformed glob syntax is reported as an error so that a bad pattern can be
// rejected before scanning begins.
func CompilePattern(rawPattern string, origin PatternOrigin) (Pattern, error) {
	trimmedPattern := strings.TrimSpace(rawPattern)
	if trimmedPattern == "" {
		return Pattern{}, fmt.Errorf("empty exclusion pattern")
	}

	normalizedPattern := strings.ReplaceAll(trimmedPattern, "\\", pathSegmentSeparator)
	directoryOnly := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
	normalizedPattern = strings.Trim(normalizedPattern, pathSegmentSeparator)
	if normalizedPattern == "" {
		return Pattern{}, fmt.Errorf("exclusion pattern %q has no path segments", rawPattern)
	}

	patternSegments := strings.Split(normalizedPattern, pathSegmentSeparator)
	for _, patternSegment := range patternSegments {
		if _, matchError := filepath.Match(patternSegment, ""); matchError != nil {
			return Pattern{}, fmt.Errorf("invalid exclusion pattern %q: %w", rawPattern, matchError)
		}
	}

	return Pattern{
		Raw:           rawPattern,
		Origin:        origin,
		segments:      patternSegments,
		directoryOnly: directoryOnly,
	}, nil
}

// CompilePatterns compiles every pattern in rawPatterns, failing on the first
// malformed entry.
func CompilePatterns(rawPatterns []string, origin PatternOrigin) ([]Pattern, error) {
	compiledPatterns := make([]Pattern, 0, len(rawPatterns))
	for _, rawPattern := range rawPatterns {
		if strings.TrimSpace(rawPattern) == "" {
			continue
		}
		compiledPattern, compileError := CompilePattern(rawPattern, origin)
		if compileError != nil {
			return nil, compileError
		}
		compiledPatterns = append(compiledPatterns, compiledPattern)
	}
	return compiledPatterns, nil
}

// matches reports whether the pattern applies to the path given as segments.
// A single-segment pattern matches any full path segment; a multi-segment
// pattern matches a suffix of the path. Matching is case-sensitive and uses
// filepath.Match semantics per segment.
func (pattern Pattern) matches(pathSegments []string, isDirectory bool) bool {
	if len(pattern.segments) == 1 {
		patternSegment := pattern.segments[0]
		for segmentIndex, pathSegment := range pathSegments {
			if !segmentMatches(patternSegment, pathSegment) {
				continue
			}
			isFinalSegment := segmentIndex == len(pathSegments)-1
			if isFinalSegment && pattern.directoryOnly && !isDirectory {
				continue
			}
			return true
		}
		return false
	}

	if len(pattern.segments) > len(pathSegments) {
		return false
	}
	suffixStart := len(pathSegments) - len(pattern.segments)
	for segmentIndex, patternSegment := range pattern.segments {
		if !segmentMatches(patternSegment, pathSegments[suffixStart+segmentIndex]) {
			return false
		}
	}
	if pattern.directoryOnly && !isDirectory {
		return false
	}
	return true
}

// segmentMatches applies filepath.Match semantics to one path segment.
// Compilation already rejected malformed patterns, so match errors cannot occur.
func segmentMatches(patternSegment, pathSegment string) bool {
	isMatched, _ := filepath.Match(patternSegment, pathSegment)
	return isMatched
}

// scopedRuleSet binds patterns to the directory subtree they were discovered in.
// A scoped set only adds exclusions within its own subtree; it can never
// re-include a path excluded by an ancestor scope.
type scopedRuleSet struct {
	scopeSegments []string
	patterns      []Pattern
}

// Matcher answers exclusion queries for paths relative to the scan root.
// The base rule set is compiled once before scanning; per-directory rule sets
// are pushed on directory entry and popped on exit by the scanner.
type Matcher struct {
	vcsDirectoryName string
	ruleSets         []scopedRuleSet
}

// NewMatcher builds a Matcher from explicit patterns. The named version-control
// metadata directory is always excluded, regardless of any rule set.
func NewMatcher(vcsDirectoryName string, explicitPatterns []Pattern) *Matcher {
	return &Matcher{
		vcsDirectoryName: vcsDirectoryName,
		ruleSets:         []scopedRuleSet{{patterns: explicitPatterns}},
	}
}

// PushScope activates additional patterns for the subtree rooted at
// scopeRelativePath (slash-separated, "" for the scan root).
func (matcher *Matcher) PushScope(scopeRelativePath string, patterns []Pattern) {
	var scopeSegments []string
	if scopeRelativePath != "" {
		scopeSegments = strings.Split(scopeRelativePath, pathSegmentSeparator)
	}
	matcher.ruleSets = append(matcher.ruleSets, scopedRuleSet{scopeSegments: scopeSegments, patterns: patterns})
}

// PopScope deactivates the most recently pushed rule set.
// The base rule set is never popped.
func (matcher *Matcher) PopScope() {
	if len(matcher.ruleSets) > 1 {
		matcher.ruleSets = matcher.ruleSets[:len(matcher.ruleSets)-1]
	}
}

// Excluded reports whether the path (relative to the scan root, slash-separated)
// is excluded by any applicable rule set. The result is a union of match sets:
// rule order never affects the outcome.
func (matcher *Matcher) Excluded(relativePath string, isDirectory bool) bool {
	pathSegments := strings.Split(relativePath, pathSegmentSeparator)

	for _, pathSegment := range pathSegments {
		if pathSegment == matcher.vcsDirectoryName {
			return true
		}
	}

	for _, ruleSet := range matcher.ruleSets {
		scopedSegments, inScope := stripScope(pathSegments, ruleSet.scopeSegments)
		if !inScope {
			continue
		}
		for _, pattern := range ruleSet.patterns {
			if pattern.matches(scopedSegments, isDirectory) {
				return true
			}
		}
	}
	return false
}

// stripScope removes the scope prefix from pathSegments. It reports false when
// the path lies outside the scope or names the scope directory itself.
func stripScope(pathSegments, scopeSegments []string) ([]string, bool) {
	if len(scopeSegments) == 0 {
		return pathSegments, true
	}
	if len(pathSegments) <= len(scopeSegments) {
		return nil, false
	}
	for segmentIndex, scopeSegment := range scopeSegments {
		if pathSegments[segmentIndex] != scopeSegment {
			return nil, false
		}
	}
	return pathSegments[len(scopeSegments):], true
}
