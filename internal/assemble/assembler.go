// Package assemble walks a finalized selection tree and renders the chosen
// files plus a directory map into the structured context document.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkravets/richprompt/internal/selection"
	"github.com/mkravets/richprompt/internal/tokenizer"
	"github.com/mkravets/richprompt/internal/utils"
)

const (
	fileMapOpenTag           = "<file_map>\n"
	fileMapCloseTag          = "</file_map>\n\n\n"
	fileContentsOpenTag      = "<file_contents>"
	fileContentsCloseTag     = "</file_contents>"
	userInstructionsOpenTag  = "\n\n<user_instructions>\n"
	userInstructionsCloseTag = "\n</user_instructions>"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// FileContent is one included file rendered into the document.
type FileContent struct {
	Path     string
	Content  string
	Language string
}

// Document is the immutable result of assembly, handed to an output sink and
// then discarded.
type Document struct {
	FileMap          string
	Files            []FileContent
	UserInstructions string
	TokenCount       int
	Warnings         []string
}

// Build reads every Included file of the tree in tree order and renders the
// directory map. Files that cannot be read or are not valid text are omitted
// and recorded as warnings; assembly continues for the remaining files.
// A nil counter disables token counting.
func Build(tree *selection.Tree, rootPath string, userInstructions string, counter tokenizer.Counter) *Document {
	document := &Document{
		FileMap:          renderFileMap(tree, rootPath),
		UserInstructions: userInstructions,
	}

	for _, relativeFilePath := range tree.IncludedFiles() {
		absoluteFilePath := filepath.Join(rootPath, filepath.FromSlash(relativeFilePath))
		fileBytes, readError := os.ReadFile(absoluteFilePath)
		if readError != nil {
			document.Warnings = append(document.Warnings,
				fmt.Sprintf("skipping %s: %v", relativeFilePath, readError))
			continue
		}
		if utils.IsBinary(fileBytes) {
			document.Warnings = append(document.Warnings,
				fmt.Sprintf("skipping %s: content is not valid text", relativeFilePath))
			continue
		}
		document.Files = append(document.Files, FileContent{
			Path:     relativeFilePath,
			Content:  string(fileBytes),
			Language: LanguageTag(relativeFilePath),
		})
		if counter != nil {
			countResult, countError := tokenizer.CountBytes(counter, fileBytes)
			if countError != nil {
				document.Warnings = append(document.Warnings,
					fmt.Sprintf("token count failed for %s: %v", relativeFilePath, countError))
			} else if countResult.Counted {
				document.TokenCount += countResult.Tokens
			}
		}
	}

	if counter != nil {
		document.TokenCount += countString(counter, document.FileMap)
		document.TokenCount += countString(counter, userInstructions)
	}

	return document
}

func countString(counter tokenizer.Counter, input string) int {
	tokens, countError := counter.CountString(input)
	if countError != nil {
		return 0
	}
	return tokens
}

// Render serializes the document into its wire format: a file-map section, a
// file-contents section with one fenced block per file, and, only when
// instructions were supplied, a user-instructions section. The layout is
// byte-stable for downstream parsers.
func (document *Document) Render() string {
	var builder strings.Builder

	builder.WriteString(fileMapOpenTag)
	builder.WriteString(document.FileMap)
	builder.WriteString(fileMapCloseTag)

	builder.WriteString(fileContentsOpenTag)
	for _, file := range document.Files {
		builder.WriteString("\nFile: ")
		builder.WriteString(file.Path)
		builder.WriteString("\n```")
		builder.WriteString(file.Language)
		builder.WriteString("\n")
		builder.WriteString(file.Content)
		builder.WriteString("\n```\n")
	}
	builder.WriteString(fileContentsCloseTag)

	if document.UserInstructions != "" {
		builder.WriteString(userInstructionsOpenTag)
		builder.WriteString(document.UserInstructions)
		builder.WriteString(userInstructionsCloseTag)
	}

	return builder.String()
}

// renderFileMap produces the depth-first outline of Included and
// PartiallyIncluded branches. Excluded subtrees are omitted entirely.
func renderFileMap(tree *selection.Tree, rootPath string) string {
	var builder strings.Builder
	rootName := filepath.Base(rootPath)
	builder.WriteString(rootName)
	builder.WriteString("/\n")

	visibleChildren := includedChildren(tree, selection.RootIndex)
	for childPosition, childIndex := range visibleChildren {
		renderMapNode(&builder, tree, childIndex, "", childPosition == len(visibleChildren)-1)
	}
	return builder.String()
}

func renderMapNode(builder *strings.Builder, tree *selection.Tree, index int, prefix string, isLast bool) {
	node := tree.Node(index)

	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}

	builder.WriteString(prefix)
	builder.WriteString(connector)
	builder.WriteString(node.Name)
	if node.Kind == selection.KindDirectory {
		builder.WriteString("/")
	}
	builder.WriteString("\n")

	if node.Kind != selection.KindDirectory {
		return
	}
	visibleChildren := includedChildren(tree, index)
	for childPosition, childIndex := range visibleChildren {
		renderMapNode(builder, tree, childIndex, childPrefix, childPosition == len(visibleChildren)-1)
	}
}

// includedChildren filters a directory's children down to the branches that
// carry at least one Included file.
func includedChildren(tree *selection.Tree, index int) []int {
	var visibleChildren []int
	for _, childIndex := range tree.Node(index).Children {
		if tree.Node(childIndex).State != selection.StateExcluded {
			visibleChildren = append(visibleChildren, childIndex)
		}
	}
	return visibleChildren
}
