package history_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdigest/internal/history"
	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
)

func TestParseBackend(testInstance *testing.T) {
	testCases := []struct {
		value           string
		expectedBackend history.Backend
		expectError     bool
	}{
		{value: "", expectedBackend: history.BackendGitCLI},
		{value: " Git ", expectedBackend: history.BackendGitCLI},
		{value: "go-git", expectedBackend: history.BackendGoGit},
		{value: "libgit2", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.value, func(subtest *testing.T) {
			backend, parseError := history.ParseBackend(testCase.value)
			if testCase.expectError {
				var invalidInput repoerrors.InvalidInputError
				require.True(subtest, errors.As(parseError, &invalidInput))
				return
			}
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.expectedBackend, backend)
		})
	}
}
