package assemble

import (
	"path/filepath"
	"strings"
)

// languageTags maps file extensions to the fence label used in the rendered
// document. Unknown extensions get an empty tag.
var languageTags = map[string]string{
	".go":    "go",
	".rs":    "rust",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "jsx",
	".ts":    "typescript",
	".tsx":   "tsx",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".sh":    "bash",
	".bash":  "bash",
	".zsh":   "bash",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".md":    "markdown",
	".proto": "proto",
	".lua":   "lua",
	".pl":    "perl",
	".r":     "r",
	".scala": "scala",
	".ex":    "elixir",
	".exs":   "elixir",
	".hs":    "haskell",
	".zig":   "zig",
}

// LanguageTag returns the fence label for a file path based on its extension.
func LanguageTag(relativePath string) string {
	extension := strings.ToLower(filepath.Ext(relativePath))
	return languageTags[extension]
}
