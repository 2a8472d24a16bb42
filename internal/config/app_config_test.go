package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mkravets/richprompt/internal/config"
)

func writeConfigFile(testingHandle *testing.T, directory, content string) string {
	testingHandle.Helper()
	configPath := filepath.Join(directory, config.ConfigFileName)
	if writeError := os.WriteFile(configPath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("write configuration: %v", writeError)
	}
	return configPath
}

func TestLoadApplicationConfigurationMissingFilesYieldDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: t.TempDir()})
	if loadError != nil {
		t.Fatalf("unexpected load error: %v", loadError)
	}
	if len(loaded.Generate.Extensions) != 0 || loaded.Generate.Prompt != "" {
		t.Fatalf("expected zero-value configuration, got %+v", loaded)
	}
}

func TestLoadApplicationConfigurationReadsLocalFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	writeConfigFile(t, workingDirectory, `
generate:
  extensions: [".go", ".rs"]
  exclude: ["target", "target", "node_modules"]
  prompt: "Review this"
  tokens:
    enabled: true
    model: gpt-4o
  paths:
    use_gitignore: false
    vcs_dir: .hg
`)

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("unexpected load error: %v", loadError)
	}
	if !reflect.DeepEqual(loaded.Generate.Extensions, []string{".go", ".rs"}) {
		t.Fatalf("unexpected extensions: %v", loaded.Generate.Extensions)
	}
	if !reflect.DeepEqual(loaded.Generate.Exclude, []string{"target", "node_modules"}) {
		t.Fatalf("expected deduplicated exclusions, got %v", loaded.Generate.Exclude)
	}
	if loaded.Generate.Prompt != "Review this" {
		t.Fatalf("unexpected prompt: %q", loaded.Generate.Prompt)
	}
	if loaded.Generate.Tokens.Enabled == nil || !*loaded.Generate.Tokens.Enabled {
		t.Fatal("expected tokens enabled")
	}
	if loaded.Generate.Tokens.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %q", loaded.Generate.Tokens.Model)
	}
	if loaded.Generate.Paths.UseGitignore == nil || *loaded.Generate.Paths.UseGitignore {
		t.Fatal("expected gitignore disabled")
	}
	if loaded.Generate.Paths.VCSDirectory != ".hg" {
		t.Fatalf("unexpected vcs directory: %q", loaded.Generate.Paths.VCSDirectory)
	}
}

func TestLoadApplicationConfigurationLocalOverridesGlobal(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	globalDirectory := filepath.Join(homeDirectory, config.GlobalConfigDirectoryName)
	if mkdirError := os.MkdirAll(globalDirectory, 0o755); mkdirError != nil {
		t.Fatalf("create global configuration directory: %v", mkdirError)
	}
	writeConfigFile(t, globalDirectory, `
generate:
  prompt: "global prompt"
  exclude: ["vendor"]
`)

	workingDirectory := t.TempDir()
	writeConfigFile(t, workingDirectory, `
generate:
  prompt: "local prompt"
`)

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("unexpected load error: %v", loadError)
	}
	if loaded.Generate.Prompt != "local prompt" {
		t.Fatalf("expected local prompt to win, got %q", loaded.Generate.Prompt)
	}
	if !reflect.DeepEqual(loaded.Generate.Exclude, []string{"vendor"}) {
		t.Fatalf("expected global exclusion to survive, got %v", loaded.Generate.Exclude)
	}
}

func TestLoadApplicationConfigurationExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configDirectory := t.TempDir()
	explicitPath := filepath.Join(configDirectory, "custom.yaml")
	if writeError := os.WriteFile(explicitPath, []byte("generate:\n  prompt: custom\n"), 0o644); writeError != nil {
		t.Fatalf("write configuration: %v", writeError)
	}

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: explicitPath,
	})
	if loadError != nil {
		t.Fatalf("unexpected load error: %v", loadError)
	}
	if loaded.Generate.Prompt != "custom" {
		t.Fatalf("unexpected prompt: %q", loaded.Generate.Prompt)
	}
}

func TestMergeOverlaysOnlySetValues(t *testing.T) {
	trueValue := true
	base := config.ApplicationConfiguration{
		Generate: config.GenerateConfiguration{
			Extensions: []string{".go"},
			Prompt:     "base",
		},
	}
	override := config.ApplicationConfiguration{
		Generate: config.GenerateConfiguration{
			Clipboard: &trueValue,
		},
	}

	merged := base.Merge(override)
	if merged.Generate.Prompt != "base" {
		t.Fatalf("expected base prompt kept, got %q", merged.Generate.Prompt)
	}
	if !reflect.DeepEqual(merged.Generate.Extensions, []string{".go"}) {
		t.Fatalf("expected base extensions kept, got %v", merged.Generate.Extensions)
	}
	if merged.Generate.Clipboard == nil || !*merged.Generate.Clipboard {
		t.Fatal("expected override clipboard applied")
	}
}
