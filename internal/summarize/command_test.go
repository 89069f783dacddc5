package summarize_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitdigest/internal/digest"
	"github.com/temirov/gitdigest/internal/execshell"
	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
	"github.com/temirov/gitdigest/internal/summarize"
	"github.com/temirov/gitdigest/internal/utils"
)

type directoryGitExecutor struct {
	outputsByDirectory map[string]string
	versionError       error
	recordedArguments  [][]string
}

func (executor *directoryGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedArguments = append(executor.recordedArguments, details.Arguments)
	if len(details.Arguments) > 0 && details.Arguments[0] == "--version" {
		return execshell.ExecutionResult{StandardOutput: "git version 2.43.0"}, executor.versionError
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputsByDirectory[details.WorkingDirectory]}, nil
}

func createRepositoryDirectories(testFramework *testing.T, names ...string) string {
	testFramework.Helper()
	rootFolder := testFramework.TempDir()
	for _, name := range names {
		require.NoError(testFramework, os.MkdirAll(filepath.Join(rootFolder, name, ".git"), 0o755))
	}
	return rootFolder
}

func gitLogOutput(records ...string) string {
	var builder strings.Builder
	for _, record := range records {
		builder.WriteString("\x1e")
		builder.WriteString(record)
		builder.WriteString("\n")
	}
	return builder.String()
}

type commandFixture struct {
	executor   *directoryGitExecutor
	summarizer *recordingSummarizer
	builder    summarize.CommandBuilder
}

func newCommandFixture(rootFolder string) commandFixture {
	executor := &directoryGitExecutor{outputsByDirectory: map[string]string{
		filepath.Join(rootFolder, testRepositoryAName): gitLogOutput(
			commitRecordFixture("2222222bbbbbbb", testBobName, 12, "Refactor"),
			commitRecordFixture("1111111aaaaaaa", testAliceName, 9, "Fix bug"),
		),
	}}
	summarizer := &recordingSummarizer{summaryText: testSummaryText}
	configuration := summarize.DefaultConfiguration()
	configuration.RootFolder = rootFolder

	return commandFixture{
		executor:   executor,
		summarizer: summarizer,
		builder: summarize.CommandBuilder{
			LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
			ConfigurationProvider: func() summarize.Configuration { return configuration },
			GitExecutor:           executor,
			Summarizer:            summarizer,
			Clock:                 fixedClock{now: time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC)},
		},
	}
}

func executeCommand(testFramework *testing.T, builder summarize.CommandBuilder, arguments ...string) (string, string, error) {
	testFramework.Helper()
	command, buildError := builder.Build()
	require.NoError(testFramework, buildError)

	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	command.SetOut(&standardOutput)
	command.SetErr(&standardError)
	command.SetArgs(arguments)
	command.SetContext(context.Background())

	executionError := command.Execute()
	return standardOutput.String(), standardError.String(), executionError
}

func TestCommandPrintsSummary(testInstance *testing.T) {
	rootFolder := createRepositoryDirectories(testInstance, testRepositoryAName, testRepositoryBName)
	fixture := newCommandFixture(rootFolder)

	standardOutput, standardError, executionError := executeCommand(testInstance, fixture.builder, "--authors", testAliceName)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, testSummaryText+"\n", standardOutput)
	require.Contains(testInstance, standardError, "Found 2 git repositories")
	require.Contains(testInstance, standardError, "Found 1 commits in A")
	require.Equal(testInstance, []string{"Project: A (1 commits)\n- 2024-01-05 09:00 1111111 Alice: Fix bug"}, fixture.summarizer.digests)
	require.Equal(testInstance, []string{"--version"}, fixture.executor.recordedArguments[0])
}

func TestCommandLogsConfigurationFileFromContext(testInstance *testing.T) {
	rootFolder := createRepositoryDirectories(testInstance, testRepositoryAName)
	fixture := newCommandFixture(rootFolder)

	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	fixture.builder.LoggerProvider = func() *zap.Logger { return zap.New(observerCore) }

	command, buildError := fixture.builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--dry-run"})
	command.SetContext(utils.NewCommandContextAccessor().WithConfigurationFile(context.Background(), "/etc/gitdigest/config.yaml"))
	require.NoError(testInstance, command.Execute())

	resolvedEntries := observedLogs.FilterMessage("summarize configuration resolved").All()
	require.Len(testInstance, resolvedEntries, 1)
	contextMap := resolvedEntries[0].ContextMap()
	require.Equal(testInstance, "/etc/gitdigest/config.yaml", contextMap["config_file"])
	require.Equal(testInstance, rootFolder, contextMap["root"])
	require.Equal(testInstance, "git", contextMap["backend"])
}

func TestCommandPositionalRootOverridesConfiguration(testInstance *testing.T) {
	rootFolder := createRepositoryDirectories(testInstance, testRepositoryAName)
	fixture := newCommandFixture(rootFolder)
	otherRoot := createRepositoryDirectories(testInstance, "elsewhere")

	standardOutput, _, executionError := executeCommand(testInstance, fixture.builder, otherRoot)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, digest.NoActivityMarker+"\n", standardOutput)
	require.Empty(testInstance, fixture.summarizer.digests)
}

func TestCommandDryRunYAML(testInstance *testing.T) {
	rootFolder := createRepositoryDirectories(testInstance, testRepositoryAName)
	fixture := newCommandFixture(rootFolder)

	standardOutput, _, executionError := executeCommand(testInstance, fixture.builder, "--dry-run", "--output", "yaml", "--date", "2024-01-05")
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, fixture.summarizer.digests)

	var decoded map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(standardOutput), &decoded))
	require.Equal(testInstance, true, decoded["dry_run"])
	require.Contains(testInstance, decoded["digest"], "Project: A (2 commits)")
}

func TestCommandRejectsInvalidInput(testInstance *testing.T) {
	rootFolder := createRepositoryDirectories(testInstance, testRepositoryAName)

	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "backend", arguments: []string{"--backend", "svn"}},
		{name: "output", arguments: []string{"--output", "json"}},
		{name: "date", arguments: []string{"--date", "someday"}},
		{name: "root", arguments: []string{filepath.Join(rootFolder, "missing")}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			fixture := newCommandFixture(rootFolder)
			_, _, executionError := executeCommand(subtest, fixture.builder, testCase.arguments...)
			var invalidInput repoerrors.InvalidInputError
			require.True(subtest, errors.As(executionError, &invalidInput))
			require.Empty(subtest, fixture.summarizer.digests)
		})
	}
}

func TestCommandFailsWhenGitMissing(testInstance *testing.T) {
	rootFolder := createRepositoryDirectories(testInstance, testRepositoryAName)
	fixture := newCommandFixture(rootFolder)
	fixture.executor.versionError = execshell.CommandExecutionError{Cause: errors.New("executable file not found in $PATH")}

	_, _, executionError := executeCommand(testInstance, fixture.builder)
	var toolUnavailable repoerrors.ToolUnavailableError
	require.True(testInstance, errors.As(executionError, &toolUnavailable))
	require.Len(testInstance, fixture.executor.recordedArguments, 1)
}
