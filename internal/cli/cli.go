// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkravets/richprompt/internal/assemble"
	"github.com/mkravets/richprompt/internal/config"
	"github.com/mkravets/richprompt/internal/output"
	"github.com/mkravets/richprompt/internal/scan"
	"github.com/mkravets/richprompt/internal/selection"
	"github.com/mkravets/richprompt/internal/tokenizer"
	"github.com/mkravets/richprompt/internal/utils"
)

const (
	rootUse              = "richprompt"
	rootShortDescription = "richprompt bundles selected project files into an LLM context block"
	rootLongDescription  = `richprompt scans a project directory, lets you pick the files that matter
(interactively or with --auto), and renders them into a single structured
context block ready to paste into an LLM conversation.`

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "richprompt version: %s\n"

	generateUse              = "generate"
	generateAlias            = "g"
	generateShortDescription = "scan, select, and render project files (" + generateAlias + ")"
	generateLongDescription  = `Scan a directory for candidate files, choose a subset, and render the
selection as <file_map>, <file_contents>, and optional <user_instructions>
sections.`
	generateUsageExample = `  # Pick files interactively and print the context block
  richprompt generate --path .

  # Bundle all Go and Rust sources without prompting, copy to the clipboard
  richprompt generate --auto -e go -e rs --clipboard

  # Exclude build output and attach an instruction
  richprompt generate --auto -x target -x node_modules --prompt "Optimize this code"`

	pathFlagName        = "path"
	extensionFlagName   = "ext"
	excludeFlagName     = "exclude"
	outputFlagName      = "output"
	clipboardFlagName   = "clipboard"
	autoFlagName        = "auto"
	promptFlagName      = "prompt"
	noGitignoreFlagName = "no-gitignore"
	vcsDirFlagName      = "vcs-dir"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	configFlagName      = "config"

	pathFlagDescription        = "root directory to scan"
	extensionFlagDescription   = "extension allow-list (empty admits all extensions)"
	excludeFlagDescription     = "exclude path pattern"
	outputFlagDescription      = "write the rendered context to a file"
	clipboardFlagDescription   = "copy the rendered context to the clipboard"
	autoFlagDescription        = "include every candidate file without prompting"
	promptFlagDescription      = "instruction text appended as a user_instructions section"
	noGitignoreFlagDescription = "do not honor .gitignore files"
	vcsDirFlagDescription      = "version-control metadata directory to always exclude"
	tokensFlagDescription      = "include a token count in the run summary"
	modelFlagDescription       = "tokenizer model to use for token counting"
	configFlagDescription      = "explicit configuration file path"

	defaultPath           = "."
	defaultTokenizerModel = "gpt-4o"

	defaultExtensionList = ".java,.js,.go,.rs,.py,.toml,.yml"
	defaultExcludeList   = ".venv,target"

	warningSkippedFormat        = "Warning: skipping %s: %v\n"
	warningAssemblyFormat       = "Warning: %s\n"
	clipboardConfirmationFormat = "Context copied to clipboard (%s)\n"
	clipboardPreviewFormat      = "\nPreview of copied content:\n\n%s\n"
	selectionCancelledMessage   = "Selection cancelled; no context generated"
	summaryFormat               = "Included %d files, %s rendered\n"
	summaryTokensFormat         = "Included %d files, %s rendered, %d tokens (%s)\n"

	errorNothingToInclude     = "nothing to include: no candidate files found under %s"
	errorPatternFormat        = "invalid exclusion configuration: %w"
	workingDirectoryErrFormat = "unable to determine working directory: %w"

	// previewLength bounds the clipboard preview, counted in runes so
	// multibyte characters are never split.
	previewLength = 200
)

// generateOptions carries the resolved configuration for one generate run.
type generateOptions struct {
	rootPath          string
	extensions        []string
	exclusionPatterns []string
	outputPath        string
	useClipboard      bool
	autoSelect        bool
	promptText        string
	useGitignore      bool
	vcsDirectoryName  string
	countTokens       bool
	tokenizerModel    string
}

// Execute runs the richprompt application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(createGenerateCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand() *cobra.Command {
	var options generateOptions
	var disableGitignore bool
	var configFilePath string

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrFormat, workingDirectoryError)
			}
			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: configFilePath,
			})
			if configurationError != nil {
				return configurationError
			}

			applyConfigurationDefaults(command, &options, applicationConfiguration.Generate)
			options.useGitignore = !disableGitignore
			if !command.Flags().Changed(noGitignoreFlagName) && applicationConfiguration.Generate.Paths.UseGitignore != nil {
				options.useGitignore = *applicationConfiguration.Generate.Paths.UseGitignore
			}
			options.extensions = normalizeExtensions(options.extensions)

			return runGenerate(options)
		},
	}

	generateCommand.Flags().StringVarP(&options.rootPath, pathFlagName, "p", defaultPath, pathFlagDescription)
	generateCommand.Flags().StringSliceVarP(&options.extensions, extensionFlagName, "e", strings.Split(defaultExtensionList, ","), extensionFlagDescription)
	generateCommand.Flags().StringSliceVarP(&options.exclusionPatterns, excludeFlagName, "x", strings.Split(defaultExcludeList, ","), excludeFlagDescription)
	generateCommand.Flags().StringVarP(&options.outputPath, outputFlagName, "o", "", outputFlagDescription)
	generateCommand.Flags().BoolVarP(&options.useClipboard, clipboardFlagName, "c", false, clipboardFlagDescription)
	generateCommand.Flags().BoolVarP(&options.autoSelect, autoFlagName, "a", false, autoFlagDescription)
	generateCommand.Flags().StringVar(&options.promptText, promptFlagName, "", promptFlagDescription)
	generateCommand.Flags().BoolVar(&disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	generateCommand.Flags().StringVar(&options.vcsDirectoryName, vcsDirFlagName, utils.GitDirectoryName, vcsDirFlagDescription)
	generateCommand.Flags().BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	generateCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	generateCommand.Flags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	return generateCommand
}

// applyConfigurationDefaults fills options from the configuration file for
// every flag the operator did not set explicitly.
func applyConfigurationDefaults(command *cobra.Command, options *generateOptions, defaults config.GenerateConfiguration) {
	flags := command.Flags()
	if !flags.Changed(extensionFlagName) && len(defaults.Extensions) > 0 {
		options.extensions = append([]string{}, defaults.Extensions...)
	}
	if !flags.Changed(excludeFlagName) && len(defaults.Exclude) > 0 {
		options.exclusionPatterns = append([]string{}, defaults.Exclude...)
	}
	if !flags.Changed(promptFlagName) && defaults.Prompt != "" {
		options.promptText = defaults.Prompt
	}
	if !flags.Changed(clipboardFlagName) && defaults.Clipboard != nil {
		options.useClipboard = *defaults.Clipboard
	}
	if !flags.Changed(autoFlagName) && defaults.Auto != nil {
		options.autoSelect = *defaults.Auto
	}
	if !flags.Changed(tokensFlagName) && defaults.Tokens.Enabled != nil {
		options.countTokens = *defaults.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && defaults.Tokens.Model != "" {
		options.tokenizerModel = defaults.Tokens.Model
	}
	if !flags.Changed(vcsDirFlagName) && defaults.Paths.VCSDirectory != "" {
		options.vcsDirectoryName = defaults.Paths.VCSDirectory
	}
}

// normalizeExtensions gives every allow-list entry its leading dot.
func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		trimmedExtension := strings.TrimSpace(extension)
		if trimmedExtension == "" {
			continue
		}
		if !strings.HasPrefix(trimmedExtension, ".") {
			trimmedExtension = "." + trimmedExtension
		}
		normalized = append(normalized, trimmedExtension)
	}
	return normalized
}

// runSelector is replaced in tests.
var runSelector = selection.RunSelector

// contentPreview truncates rendered content for the clipboard confirmation,
// cutting on rune boundaries.
func contentPreview(content string) string {
	contentRunes := []rune(content)
	if len(contentRunes) <= previewLength {
		return content
	}
	return string(contentRunes[:previewLength]) + "..."
}

// runGenerate executes the scan → select → assemble → write pipeline.
func runGenerate(options generateOptions) error {
	explicitPatterns, compileError := scan.CompilePatterns(options.exclusionPatterns, scan.OriginFlag)
	if compileError != nil {
		return fmt.Errorf(errorPatternFormat, compileError)
	}
	matcher := scan.NewMatcher(options.vcsDirectoryName, explicitPatterns)

	scanResult, scanError := scan.Scan(options.rootPath, matcher, scan.Options{
		Extensions:   options.extensions,
		UseGitignore: options.useGitignore,
	})
	if scanError != nil {
		return scanError
	}
	for _, skippedEntry := range scanResult.Skipped {
		fmt.Fprintf(os.Stderr, warningSkippedFormat, skippedEntry.Path, skippedEntry.Cause)
	}
	if len(scanResult.Files) == 0 {
		return fmt.Errorf(errorNothingToInclude, options.rootPath)
	}

	selectionTree := selection.NewTree(scanResult.Files, options.autoSelect)
	if !options.autoSelect {
		confirmed, selectorError := runSelector(selectionTree)
		if selectorError != nil {
			return selectorError
		}
		if !confirmed {
			fmt.Fprintln(os.Stderr, selectionCancelledMessage)
			return nil
		}
	}

	var tokenCounter tokenizer.Counter
	var tokenizerName string
	if options.countTokens {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: options.tokenizerModel})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenizerName = resolvedModel
	}

	document := assemble.Build(selectionTree, options.rootPath, options.promptText, tokenCounter)
	for _, assemblyWarning := range document.Warnings {
		fmt.Fprintf(os.Stderr, warningAssemblyFormat, assemblyWarning)
	}

	renderedDocument := document.Render()
	sink := output.NewWriter(options.outputPath, options.useClipboard)
	if writeError := sink.Write(renderedDocument); writeError != nil {
		return writeError
	}

	renderedSize := utils.FormatFileSize(int64(len(renderedDocument)))
	if options.useClipboard {
		fmt.Fprintf(os.Stderr, clipboardConfirmationFormat, renderedSize)
		fmt.Fprintf(os.Stderr, clipboardPreviewFormat, contentPreview(renderedDocument))
	}
	if tokenCounter != nil {
		fmt.Fprintf(os.Stderr, summaryTokensFormat, len(document.Files), renderedSize, document.TokenCount, tokenizerName)
	} else {
		fmt.Fprintf(os.Stderr, summaryFormat, len(document.Files), renderedSize)
	}
	return nil
}
