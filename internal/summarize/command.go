package summarize

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdigest/internal/execshell"
	"github.com/temirov/gitdigest/internal/history"
	"github.com/temirov/gitdigest/internal/repos/dependencies"
	"github.com/temirov/gitdigest/internal/repos/discovery"
	"github.com/temirov/gitdigest/internal/repos/shared"
	"github.com/temirov/gitdigest/internal/summary"
	"github.com/temirov/gitdigest/internal/utils"
	flagutils "github.com/temirov/gitdigest/internal/utils/flags"
	pathutils "github.com/temirov/gitdigest/internal/utils/path"
)

const (
	commandUseConstant                    = "summarize [root-folder]"
	commandShortDescriptionConstant       = "Summarize recent commits across repositories"
	commandLongDescriptionConstant        = "summarize scans the git repositories directly beneath a root folder, collects the commits made in a date window, and asks a chat-completions endpoint for a short activity summary."
	commandExampleConstant                = "  gitdigest summarize ~/proj --date yesterday --authors \"Alice,Bob\"\n  gitdigest summarize --date 2024-01-01..2024-01-07 --output yaml --dry-run"
	commandExecutionErrorTemplateConstant = "summarize failed: %w"
	reportWriteErrorTemplateConstant      = "unable to write report: %w"
	flagDateNameConstant                  = "date"
	flagDateDescriptionConstant           = "Date selection: today, yesterday, N-days-ago, last-N-days, YYYY-MM-DD, or YYYY-MM-DD..YYYY-MM-DD"
	flagAuthorsNameConstant               = "authors"
	flagAuthorsDescriptionConstant        = "Comma-separated list of exact author names to include"
	flagExcludeNameConstant               = "exclude"
	flagExcludeDescriptionConstant        = "Glob pattern for repository directory names to skip (repeatable)"
	flagBackendNameConstant               = "backend"
	flagBackendDescriptionConstant        = "History backend"
	flagAllBranchesNameConstant           = "all-branches"
	flagAllBranchesDescriptionConstant    = "Read commits reachable from every ref instead of the current checkout"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Print the digest without requesting a summary"
	flagOutputNameConstant                = "output"
	flagOutputDescriptionConstant         = "Output format"
	maximumPositionalArgumentsConstant    = 1
	configurationFileLogMessageConstant   = "summarize configuration resolved"
	configurationFileLogFieldConstant     = "config_file"
	rootFolderLogFieldConstant            = "root"
	backendLogFieldConstant               = "backend"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current summarize configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the summarize cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	CommandEventsObserver execshell.CommandEventObserver
	GitExecutor           shared.GitExecutor
	FileSystem            shared.FileSystem
	HistoryQuery          history.HistoryQuery
	Summarizer            summary.Summarizer
	Clock                 shared.Clock
	HomeExpander          *pathutils.HomeExpander
}

type commandOptions struct {
	serviceOptions  Options
	excludePatterns []string
	backend         history.Backend
	allBranches     bool
	outputFormat    OutputFormat
}

// Build constructs the summarize command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.MaximumNArgs(maximumPositionalArgumentsConstant),
		RunE:    builder.run,
	}

	command.Flags().String(flagDateNameConstant, "", flagDateDescriptionConstant)
	command.Flags().String(flagAuthorsNameConstant, "", flagAuthorsDescriptionConstant)
	command.Flags().StringSlice(flagExcludeNameConstant, nil, flagExcludeDescriptionConstant)
	command.Flags().String(flagBackendNameConstant, "", flagutils.FormatChoiceUsage(string(history.BackendGitCLI), history.SupportedBackends(), flagBackendDescriptionConstant))
	command.Flags().Bool(flagAllBranchesNameConstant, false, flagAllBranchesDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescriptionConstant)
	command.Flags().String(flagOutputNameConstant, "", flagutils.FormatChoiceUsage(string(OutputFormatText), SupportedOutputFormats(), flagOutputDescriptionConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	options, optionsError := builder.parseOptions(command, arguments, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	configurationFile, _ := utils.NewCommandContextAccessor().ConfigurationFile(command.Context())
	logger.Debug(
		configurationFileLogMessageConstant,
		zap.String(configurationFileLogFieldConstant, configurationFile),
		zap.String(rootFolderLogFieldConstant, options.serviceOptions.RootFolder),
		zap.String(backendLogFieldConstant, string(options.backend)),
	)

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}

	historyQuery, queryError := dependencies.ResolveHistoryQuery(builder.HistoryQuery, options.backend, gitExecutor, options.allBranches)
	if queryError != nil {
		return queryError
	}

	extractor, extractorError := history.NewCommitExtractor(historyQuery, logger)
	if extractorError != nil {
		return extractorError
	}

	scanner := discovery.NewRepositoryScanner(dependencies.ResolveFileSystem(builder.FileSystem), builder.HomeExpander, options.excludePatterns)

	service, serviceError := NewService(ServiceDependencies{
		Logger:     logger,
		Scanner:    scanner,
		Extractor:  extractor,
		Summarizer: dependencies.ResolveSummarizer(builder.Summarizer, configuration.Summary, logger),
		Clock:      dependencies.ResolveClock(builder.Clock),
		Reporter:   shared.NewWriterReporter(utils.NewFlushingWriter(command.ErrOrStderr())),
	})
	if serviceError != nil {
		return serviceError
	}

	report, runError := service.Run(command.Context(), options.serviceOptions)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	if writeError := WriteReport(utils.NewFlushingWriter(command.OutOrStdout()), report, options.outputFormat); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string, configuration Configuration) (commandOptions, error) {
	rootFolder := configuration.RootFolder
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		rootFolder = strings.TrimSpace(arguments[0])
	}

	dateSelection := configuration.DateSelection
	if command.Flags().Changed(flagDateNameConstant) {
		dateSelection, _ = command.Flags().GetString(flagDateNameConstant)
	}

	authorNames := configuration.Authors
	if command.Flags().Changed(flagAuthorsNameConstant) {
		authorNames, _ = command.Flags().GetString(flagAuthorsNameConstant)
	}

	excludePatterns := configuration.ExcludePatterns
	if command.Flags().Changed(flagExcludeNameConstant) {
		excludePatterns, _ = command.Flags().GetStringSlice(flagExcludeNameConstant)
	}

	backendValue := configuration.HistoryBackend
	if command.Flags().Changed(flagBackendNameConstant) {
		backendValue, _ = command.Flags().GetString(flagBackendNameConstant)
	}
	backend, backendError := history.ParseBackend(backendValue)
	if backendError != nil {
		return commandOptions{}, backendError
	}

	outputValue := configuration.OutputFormat
	if command.Flags().Changed(flagOutputNameConstant) {
		outputValue, _ = command.Flags().GetString(flagOutputNameConstant)
	}
	outputFormat, outputError := ParseOutputFormat(outputValue)
	if outputError != nil {
		return commandOptions{}, outputError
	}

	allBranches := configuration.AllBranches
	if command.Flags().Changed(flagAllBranchesNameConstant) {
		allBranches, _ = command.Flags().GetBool(flagAllBranchesNameConstant)
	}

	dryRun := configuration.DryRun
	if command.Flags().Changed(flagDryRunNameConstant) {
		dryRun, _ = command.Flags().GetBool(flagDryRunNameConstant)
	}

	return commandOptions{
		serviceOptions: Options{
			RootFolder:    rootFolder,
			DateSelection: dateSelection,
			AuthorNames:   authorNames,
			DryRun:        dryRun,
		},
		excludePatterns: excludePatterns,
		backend:         backend,
		allBranches:     allBranches,
		outputFormat:    outputFormat,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration().Sanitize()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
