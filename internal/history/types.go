package history

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/temirov/gitdigest/internal/repos/discovery"
	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
)

const (
	calendarDateLayoutConstant       = "2006-01-02"
	dateRangeFieldNameConstant       = "date range"
	dateRangeValueTemplateSeparator  = ".."
	dateRangeLabelSeparatorConstant  = " to "
	authorFilterSeparatorConstant    = ","
	dateRangeInvertedMessageConstant = "start date is after end date"
)

var errDateRangeInverted = errors.New(dateRangeInvertedMessageConstant)

// DateRange is an inclusive window of calendar dates evaluated in a specific location.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange normalizes both bounds to midnight in location and rejects start > end.
func NewDateRange(start time.Time, end time.Time, location *time.Location) (DateRange, error) {
	if location == nil {
		location = time.Local
	}

	normalizedStart := calendarDay(start, location)
	normalizedEnd := calendarDay(end, location)
	if normalizedStart.After(normalizedEnd) {
		return DateRange{}, repoerrors.InvalidInputError{
			Field: dateRangeFieldNameConstant,
			Value: normalizedStart.Format(calendarDateLayoutConstant) + dateRangeValueTemplateSeparator + normalizedEnd.Format(calendarDateLayoutConstant),
			Cause: errDateRangeInverted,
		}
	}

	return DateRange{start: normalizedStart, end: normalizedEnd}, nil
}

// SingleDay builds a window covering one calendar date.
func SingleDay(day time.Time, location *time.Location) DateRange {
	dateRange, _ := NewDateRange(day, day, location)
	return dateRange
}

// Start returns the first calendar date of the window.
func (dateRange DateRange) Start() time.Time {
	return dateRange.start
}

// End returns the last calendar date of the window.
func (dateRange DateRange) End() time.Time {
	return dateRange.end
}

// Location returns the location the window is evaluated in.
func (dateRange DateRange) Location() *time.Location {
	return dateRange.start.Location()
}

// Since returns the first instant of the window.
func (dateRange DateRange) Since() time.Time {
	return dateRange.start
}

// Until returns the last instant of the window.
func (dateRange DateRange) Until() time.Time {
	return dateRange.end.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Contains reports whether instant falls within the window, bounds included.
func (dateRange DateRange) Contains(instant time.Time) bool {
	return !instant.Before(dateRange.Since()) && !instant.After(dateRange.Until())
}

// Label renders the window as a single date or "start to end".
func (dateRange DateRange) Label() string {
	startLabel := dateRange.start.Format(calendarDateLayoutConstant)
	if dateRange.start.Equal(dateRange.end) {
		return startLabel
	}
	return startLabel + dateRangeLabelSeparatorConstant + dateRange.end.Format(calendarDateLayoutConstant)
}

func calendarDay(instant time.Time, location *time.Location) time.Time {
	localized := instant.In(location)
	return time.Date(localized.Year(), localized.Month(), localized.Day(), 0, 0, 0, 0, location)
}

// AuthorFilter is an allow-list of exact author names. The empty filter admits every author.
type AuthorFilter struct {
	names map[string]struct{}
}

// NewAuthorFilter builds a filter from names, trimming whitespace and dropping blanks.
func NewAuthorFilter(names ...string) AuthorFilter {
	filter := AuthorFilter{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if len(trimmedName) == 0 {
			continue
		}
		filter.names[trimmedName] = struct{}{}
	}
	return filter
}

// ParseAuthorFilter builds a filter from a comma-delimited list such as "Alice, Bob".
func ParseAuthorFilter(rawNames string) AuthorFilter {
	return NewAuthorFilter(strings.Split(rawNames, authorFilterSeparatorConstant)...)
}

// IsEmpty reports whether the filter admits every author.
func (filter AuthorFilter) IsEmpty() bool {
	return len(filter.names) == 0
}

// Allows reports whether author passes the filter. Matching is case-sensitive.
func (filter AuthorFilter) Allows(author string) bool {
	if filter.IsEmpty() {
		return true
	}
	_, allowed := filter.names[author]
	return allowed
}

// Names returns the configured names in lexicographic order.
func (filter AuthorFilter) Names() []string {
	names := make([]string, 0, len(filter.names))
	for name := range filter.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommitRecord is a single commit extracted from a repository.
// Message holds the subject line only.
type CommitRecord struct {
	Repository  discovery.Repository
	Hash        string
	Author      string
	AuthorEmail string
	Timestamp   time.Time
	Message     string
}
