// Package output writes rendered context documents to the configured sink.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mkravets/richprompt/internal/services/clipboard"
)

// Writer serializes a rendered document to its destination. The engine is
// indifferent to which sink is used.
type Writer interface {
	Write(content string) error
}

// ConsoleWriter writes the document to the provided stream.
type ConsoleWriter struct {
	Out io.Writer
}

// Write prints the content followed by a trailing newline.
func (writer ConsoleWriter) Write(content string) error {
	if _, writeError := io.WriteString(writer.Out, content); writeError != nil {
		return writeError
	}
	_, writeError := io.WriteString(writer.Out, "\n")
	return writeError
}

// FileWriter writes the document to a named file.
type FileWriter struct {
	Path string
}

// Write stores the content at the configured path.
func (writer FileWriter) Write(content string) error {
	if writeError := os.WriteFile(writer.Path, []byte(content), 0o644); writeError != nil {
		return fmt.Errorf("writing output to %s: %w", writer.Path, writeError)
	}
	return nil
}

// ClipboardWriter copies the document to the system clipboard.
type ClipboardWriter struct {
	Copier clipboard.Copier
}

// Write places the content on the clipboard.
func (writer ClipboardWriter) Write(content string) error {
	if copyError := writer.Copier.Copy(content); copyError != nil {
		return fmt.Errorf("copying output to clipboard: %w", copyError)
	}
	return nil
}

// NewWriter selects the sink for a run: clipboard when requested, then a named
// file, otherwise standard output.
func NewWriter(outputPath string, useClipboard bool) Writer {
	if useClipboard {
		return ClipboardWriter{Copier: clipboard.NewService()}
	}
	if outputPath != "" {
		return FileWriter{Path: outputPath}
	}
	return ConsoleWriter{Out: os.Stdout}
}
