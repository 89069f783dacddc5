package history

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/temirov/gitdigest/internal/execshell"
	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
	"github.com/temirov/gitdigest/internal/repos/shared"
)

const (
	gitToolNameConstant               = "git"
	gitLogSubcommandConstant          = "log"
	gitNoColorFlagConstant            = "--no-color"
	gitAllRefsFlagConstant            = "--all"
	gitVersionFlagConstant            = "--version"
	gitLogPrettyFormatFlagConstant    = "--pretty=format:%x1e%H%x00%an%x00%ae%x00%cI%x00%B"
	gitSinceFlagTemplateConstant      = "--since=@%d"
	gitUntilFlagTemplateConstant      = "--until=@%d"
	gitExecutorMissingErrorConstant   = "git executor not configured"
	gitLogFailedErrorTemplateConstant = "git log failed: %w"
)

// ErrGitExecutorNotConfigured indicates that GitCLIHistoryQuery was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingErrorConstant)

// GitCLIHistoryQuery reads history by running git log through the shell executor.
type GitCLIHistoryQuery struct {
	executor    shared.GitExecutor
	allBranches bool
}

// NewGitCLIHistoryQuery constructs a query over the current checkout, or every ref when allBranches is set.
func NewGitCLIHistoryQuery(executor shared.GitExecutor, allBranches bool) (*GitCLIHistoryQuery, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &GitCLIHistoryQuery{executor: executor, allBranches: allBranches}, nil
}

// EnsureAvailable runs git --version and reports ToolUnavailableError when it fails.
func (query *GitCLIHistoryQuery) EnsureAvailable(executionContext context.Context) error {
	_, executionError := query.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitVersionFlagConstant},
	})
	if executionError != nil {
		return repoerrors.ToolUnavailableError{Tool: gitToolNameConstant, Cause: executionError}
	}
	return nil
}

// Query runs git log in repositoryPath restricted to dateRange.
func (query *GitCLIHistoryQuery) Query(executionContext context.Context, repositoryPath string, dateRange DateRange) ([]string, error) {
	arguments := []string{
		gitLogSubcommandConstant,
		gitNoColorFlagConstant,
		gitLogPrettyFormatFlagConstant,
		fmt.Sprintf(gitSinceFlagTemplateConstant, dateRange.Since().Unix()),
		fmt.Sprintf(gitUntilFlagTemplateConstant, dateRange.Until().Unix()),
	}
	if query.allBranches {
		arguments = append(arguments, gitAllRefsFlagConstant)
	}

	executionResult, executionError := query.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		if errors.Is(executionError, exec.ErrNotFound) {
			return nil, repoerrors.ToolUnavailableError{Tool: gitToolNameConstant, Cause: executionError}
		}
		return nil, fmt.Errorf(gitLogFailedErrorTemplateConstant, executionError)
	}

	return splitRawRecords(executionResult.StandardOutput), nil
}
