package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/gitdigest/internal/execshell"
	"github.com/temirov/gitdigest/internal/history"
	"github.com/temirov/gitdigest/internal/repos/filesystem"
	"github.com/temirov/gitdigest/internal/repos/shared"
	"github.com/temirov/gitdigest/internal/summary"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveClock returns the provided clock or the system clock.
func ResolveClock(existing shared.Clock) shared.Clock {
	if existing != nil {
		return existing
	}
	return shared.SystemClock{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observers ...execshell.CommandEventObserver) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	activeObservers := make([]execshell.CommandEventObserver, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			activeObservers = append(activeObservers, observer)
		}
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, activeObservers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveHistoryQuery returns the provided query or builds the one selected by backend.
func ResolveHistoryQuery(existing history.HistoryQuery, backend history.Backend, executor shared.GitExecutor, allBranches bool) (history.HistoryQuery, error) {
	if existing != nil {
		return existing, nil
	}
	if backend == history.BackendGoGit {
		return history.NewGoGitHistoryQuery(allBranches), nil
	}
	return history.NewGitCLIHistoryQuery(executor, allBranches)
}

// ResolveSummarizer returns the provided summarizer or an HTTP client built from config.
func ResolveSummarizer(existing summary.Summarizer, config summary.Config, logger *zap.Logger) summary.Summarizer {
	if existing != nil {
		return existing
	}
	return summary.NewClient(config, logger)
}
