package scan_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mkravets/richprompt/internal/scan"
)

func writeTestFile(testingHandle *testing.T, rootDirectory, relativePath, content string) {
	testingHandle.Helper()
	absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
		testingHandle.Fatalf("create directories for %s: %v", relativePath, mkdirError)
	}
	if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", relativePath, writeError)
	}
}

func mustMatcher(testingHandle *testing.T, explicitPatterns []string) *scan.Matcher {
	testingHandle.Helper()
	compiledPatterns, compileError := scan.CompilePatterns(explicitPatterns, scan.OriginFlag)
	if compileError != nil {
		testingHandle.Fatalf("compile patterns: %v", compileError)
	}
	return scan.NewMatcher(".git", compiledPatterns)
}

func TestScanMissingRootFails(t *testing.T) {
	_, scanError := scan.Scan(filepath.Join(t.TempDir(), "absent"), mustMatcher(t, nil), scan.Options{})
	if scanError == nil {
		t.Fatal("expected error for missing root")
	}
	if !strings.Contains(scanError.Error(), "does not exist") {
		t.Fatalf("unexpected error: %v", scanError)
	}
}

func TestScanFileRootFails(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "plain.txt", "content")
	_, scanError := scan.Scan(filepath.Join(rootDirectory, "plain.txt"), mustMatcher(t, nil), scan.Options{})
	if scanError == nil {
		t.Fatal("expected error for file root")
	}
	if !strings.Contains(scanError.Error(), "not a directory") {
		t.Fatalf("unexpected error: %v", scanError)
	}
}

func TestScanExcludesPatternAndFiltersExtensions(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "src/main.rs", "fn main() {}")
	writeTestFile(t, rootDirectory, "target/debug/main.rs", "compiled")
	writeTestFile(t, rootDirectory, "README.md", "# readme")

	result, scanError := scan.Scan(rootDirectory, mustMatcher(t, []string{"target"}), scan.Options{
		Extensions: []string{".rs"},
	})
	if scanError != nil {
		t.Fatalf("unexpected scan error: %v", scanError)
	}
	expectedFiles := []string{"src/main.rs"}
	if !reflect.DeepEqual(result.Files, expectedFiles) {
		t.Fatalf("expected %v, got %v", expectedFiles, result.Files)
	}
}

func TestScanEmptyExtensionListAdmitsEverything(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "Makefile", "all:")
	writeTestFile(t, rootDirectory, "app.js", "console.log(1)")
	writeTestFile(t, rootDirectory, ".git/config", "[core]")

	result, scanError := scan.Scan(rootDirectory, mustMatcher(t, nil), scan.Options{})
	if scanError != nil {
		t.Fatalf("unexpected scan error: %v", scanError)
	}
	expectedFiles := []string{"Makefile", "app.js"}
	if !reflect.DeepEqual(result.Files, expectedFiles) {
		t.Fatalf("expected %v, got %v", expectedFiles, result.Files)
	}
}

func TestScanExtensionComparisonIsExact(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "lower.go", "package lower")
	writeTestFile(t, rootDirectory, "upper.GO", "package upper")
	writeTestFile(t, rootDirectory, "noext", "bare")

	result, scanError := scan.Scan(rootDirectory, mustMatcher(t, nil), scan.Options{
		Extensions: []string{".go"},
	})
	if scanError != nil {
		t.Fatalf("unexpected scan error: %v", scanError)
	}
	expectedFiles := []string{"lower.go"}
	if !reflect.DeepEqual(result.Files, expectedFiles) {
		t.Fatalf("expected %v, got %v", expectedFiles, result.Files)
	}
}

func TestScanHonorsNestedGitignoreScopes(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, ".gitignore", "*.log\n")
	writeTestFile(t, rootDirectory, "root.log", "root log")
	writeTestFile(t, rootDirectory, "keep.txt", "keep")
	writeTestFile(t, rootDirectory, "service/.gitignore", "generated/\n")
	writeTestFile(t, rootDirectory, "service/app.log", "service log")
	writeTestFile(t, rootDirectory, "service/main.txt", "main")
	writeTestFile(t, rootDirectory, "service/generated/out.txt", "generated")
	writeTestFile(t, rootDirectory, "other/generated/out.txt", "not scoped")

	result, scanError := scan.Scan(rootDirectory, mustMatcher(t, nil), scan.Options{UseGitignore: true})
	if scanError != nil {
		t.Fatalf("unexpected scan error: %v", scanError)
	}
	expectedFiles := []string{
		".gitignore",
		"keep.txt",
		"other/generated/out.txt",
		"service/.gitignore",
		"service/main.txt",
	}
	if !reflect.DeepEqual(result.Files, expectedFiles) {
		t.Fatalf("expected %v, got %v", expectedFiles, result.Files)
	}
}

func TestScanIgnoresGitignoreWhenDisabled(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, ".gitignore", "*.log\n")
	writeTestFile(t, rootDirectory, "app.log", "log")

	result, scanError := scan.Scan(rootDirectory, mustMatcher(t, nil), scan.Options{UseGitignore: false})
	if scanError != nil {
		t.Fatalf("unexpected scan error: %v", scanError)
	}
	expectedFiles := []string{".gitignore", "app.log"}
	if !reflect.DeepEqual(result.Files, expectedFiles) {
		t.Fatalf("expected %v, got %v", expectedFiles, result.Files)
	}
}

func TestScanOrderIsDeterministic(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "zeta.txt", "z")
	writeTestFile(t, rootDirectory, "alpha/inner.txt", "i")
	writeTestFile(t, rootDirectory, "alpha.txt", "a")
	writeTestFile(t, rootDirectory, "beta/deep/leaf.txt", "l")

	firstResult, firstError := scan.Scan(rootDirectory, mustMatcher(t, nil), scan.Options{})
	if firstError != nil {
		t.Fatalf("unexpected scan error: %v", firstError)
	}
	secondResult, secondError := scan.Scan(rootDirectory, mustMatcher(t, nil), scan.Options{})
	if secondError != nil {
		t.Fatalf("unexpected scan error: %v", secondError)
	}

	expectedFiles := []string{"alpha/inner.txt", "alpha.txt", "beta/deep/leaf.txt", "zeta.txt"}
	if !reflect.DeepEqual(firstResult.Files, expectedFiles) {
		t.Fatalf("expected %v, got %v", expectedFiles, firstResult.Files)
	}
	if !reflect.DeepEqual(firstResult.Files, secondResult.Files) {
		t.Fatalf("expected identical order across runs, got %v then %v", firstResult.Files, secondResult.Files)
	}
}

func TestScanSkipsSymlinks(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, rootDirectory, "real.txt", "real")
	linkPath := filepath.Join(rootDirectory, "link.txt")
	if symlinkError := os.Symlink(filepath.Join(rootDirectory, "real.txt"), linkPath); symlinkError != nil {
		t.Skipf("symlinks unavailable: %v", symlinkError)
	}

	result, scanError := scan.Scan(rootDirectory, mustMatcher(t, nil), scan.Options{})
	if scanError != nil {
		t.Fatalf("unexpected scan error: %v", scanError)
	}
	expectedFiles := []string{"real.txt"}
	if !reflect.DeepEqual(result.Files, expectedFiles) {
		t.Fatalf("expected %v, got %v", expectedFiles, result.Files)
	}
}
