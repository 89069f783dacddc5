package summarize_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
	"github.com/temirov/gitdigest/internal/summarize"
)

func TestResolveDateSelection(testInstance *testing.T) {
	now := time.Date(2024, time.January, 10, 14, 30, 0, 0, time.UTC)
	testCases := []struct {
		name          string
		selection     string
		expectedLabel string
		expectError   bool
	}{
		{name: "empty_means_today", selection: "", expectedLabel: "2024-01-10"},
		{name: "today", selection: "today", expectedLabel: "2024-01-10"},
		{name: "yesterday", selection: " Yesterday ", expectedLabel: "2024-01-09"},
		{name: "zero_days_ago", selection: "0-days-ago", expectedLabel: "2024-01-10"},
		{name: "one_day_ago", selection: "1-day-ago", expectedLabel: "2024-01-09"},
		{name: "five_days_ago", selection: "5-days-ago", expectedLabel: "2024-01-05"},
		{name: "last_seven_days", selection: "last-7-days", expectedLabel: "2024-01-04 to 2024-01-10"},
		{name: "last_one_day", selection: "last-1-day", expectedLabel: "2024-01-10"},
		{name: "explicit_date", selection: "2024-01-05", expectedLabel: "2024-01-05"},
		{name: "explicit_range", selection: "2024-01-01..2024-01-07", expectedLabel: "2024-01-01 to 2024-01-07"},
		{name: "inverted_range", selection: "2024-01-07..2024-01-01", expectError: true},
		{name: "zero_window", selection: "last-0-days", expectError: true},
		{name: "malformed_date", selection: "2024-13-40", expectError: true},
		{name: "unknown_keyword", selection: "last-week", expectError: true},
		{name: "half_range", selection: "2024-01-01..", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			dateRange, resolveError := summarize.ResolveDateSelection(testCase.selection, now)
			if testCase.expectError {
				var invalidInput repoerrors.InvalidInputError
				require.True(subtest, errors.As(resolveError, &invalidInput))
				require.Equal(subtest, testCase.selection, invalidInput.Value)
				return
			}
			require.NoError(subtest, resolveError)
			require.Equal(subtest, testCase.expectedLabel, dateRange.Label())
			require.Equal(subtest, time.UTC, dateRange.Location())
		})
	}
}
