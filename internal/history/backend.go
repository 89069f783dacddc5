package history

import (
	"errors"
	"strings"

	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
)

// Backend names a HistoryQuery implementation.
type Backend string

const (
	// BackendGitCLI runs the git executable.
	BackendGitCLI Backend = "git"
	// BackendGoGit reads repositories in-process.
	BackendGoGit Backend = "go-git"

	backendFieldNameConstant      = "history backend"
	unknownBackendMessageConstant = "supported backends are git and go-git"
)

var errUnknownBackend = errors.New(unknownBackendMessageConstant)

// SupportedBackends lists the accepted backend names.
func SupportedBackends() []string {
	return []string{string(BackendGitCLI), string(BackendGoGit)}
}

// ParseBackend resolves a backend name, treating an empty value as BackendGitCLI.
func ParseBackend(value string) (Backend, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch Backend(normalized) {
	case "", BackendGitCLI:
		return BackendGitCLI, nil
	case BackendGoGit:
		return BackendGoGit, nil
	default:
		return "", repoerrors.InvalidInputError{Field: backendFieldNameConstant, Value: value, Cause: errUnknownBackend}
	}
}
