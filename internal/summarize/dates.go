package summarize

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/temirov/gitdigest/internal/history"
	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
)

const (
	dateSelectionTodayConstant     = "today"
	dateSelectionYesterdayConstant = "yesterday"
	dateSelectionRangeSeparator    = ".."
	dateSelectionLayoutConstant    = "2006-01-02"
	dateSelectionFieldNameConstant = "date selection"
	unsupportedSelectionMessage    = "expected today, yesterday, N-days-ago, last-N-days, YYYY-MM-DD, or YYYY-MM-DD..YYYY-MM-DD"
	nonPositiveWindowMessage       = "window length must be at least one day"
	relativeOffsetPatternConstant  = `^(\d+)-days?-ago$`
	trailingWindowPatternConstant  = `^last-(\d+)-days?$`
)

var (
	relativeOffsetPattern = regexp.MustCompile(relativeOffsetPatternConstant)
	trailingWindowPattern = regexp.MustCompile(trailingWindowPatternConstant)

	errUnsupportedSelection = errors.New(unsupportedSelectionMessage)
	errNonPositiveWindow    = errors.New(nonPositiveWindowMessage)
)

// ResolveDateSelection converts a selection into an inclusive DateRange in now's location.
//
// Accepted forms: "today", "yesterday", "N-days-ago", "last-N-days" (N days ending today),
// "YYYY-MM-DD", and "YYYY-MM-DD..YYYY-MM-DD". An empty selection means today.
func ResolveDateSelection(selection string, now time.Time) (history.DateRange, error) {
	location := now.Location()
	normalized := strings.ToLower(strings.TrimSpace(selection))

	switch normalized {
	case "", dateSelectionTodayConstant:
		return history.SingleDay(now, location), nil
	case dateSelectionYesterdayConstant:
		return history.SingleDay(now.AddDate(0, 0, -1), location), nil
	}

	if match := relativeOffsetPattern.FindStringSubmatch(normalized); match != nil {
		offset, parseError := strconv.Atoi(match[1])
		if parseError != nil {
			return history.DateRange{}, invalidSelection(selection, parseError)
		}
		return history.SingleDay(now.AddDate(0, 0, -offset), location), nil
	}

	if match := trailingWindowPattern.FindStringSubmatch(normalized); match != nil {
		windowLength, parseError := strconv.Atoi(match[1])
		if parseError != nil {
			return history.DateRange{}, invalidSelection(selection, parseError)
		}
		if windowLength < 1 {
			return history.DateRange{}, invalidSelection(selection, errNonPositiveWindow)
		}
		return history.NewDateRange(now.AddDate(0, 0, -(windowLength-1)), now, location)
	}

	startValue, endValue, isRange := strings.Cut(normalized, dateSelectionRangeSeparator)
	if !isRange {
		endValue = startValue
	}

	startDate, startError := time.ParseInLocation(dateSelectionLayoutConstant, strings.TrimSpace(startValue), location)
	if startError != nil {
		return history.DateRange{}, invalidSelection(selection, errUnsupportedSelection)
	}
	endDate, endError := time.ParseInLocation(dateSelectionLayoutConstant, strings.TrimSpace(endValue), location)
	if endError != nil {
		return history.DateRange{}, invalidSelection(selection, errUnsupportedSelection)
	}

	dateRange, rangeError := history.NewDateRange(startDate, endDate, location)
	if rangeError != nil {
		var invalidInput repoerrors.InvalidInputError
		if errors.As(rangeError, &invalidInput) {
			return history.DateRange{}, invalidSelection(selection, invalidInput.Cause)
		}
		return history.DateRange{}, rangeError
	}
	return dateRange, nil
}

func invalidSelection(selection string, cause error) error {
	return repoerrors.InvalidInputError{Field: dateSelectionFieldNameConstant, Value: selection, Cause: cause}
}
