package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/temirov/gitdigest/internal/history"
	"github.com/temirov/gitdigest/internal/repos/discovery"
)

// NoActivityMarker is returned instead of a digest when no repository has matching commits.
const NoActivityMarker = "No commits found in the specified date range across all projects."

const (
	projectHeaderTemplateConstant = "Project: %s (%d commits)"
	commitLineTemplateConstant    = "- %s %s %s: %s"
	commitTimestampLayoutConstant = "2006-01-02 15:04"
	shortHashLengthConstant       = 7
	lineSeparatorConstant         = "\n"
	projectSeparatorConstant      = "\n\n"
)

// Entry pairs a repository with its commits in the requested window.
type Entry struct {
	Repository discovery.Repository
	Commits    []history.CommitRecord
}

// Formatter renders digests with timestamps in a fixed location.
type Formatter struct {
	location *time.Location
}

// NewFormatter constructs a Formatter rendering timestamps in location, or local time when nil.
func NewFormatter(location *time.Location) Formatter {
	if location == nil {
		location = time.Local
	}
	return Formatter{location: location}
}

// Format renders entries in the given order, skipping entries without commits.
// The output is byte-stable for identical input.
func (formatter Formatter) Format(entries []Entry) string {
	projectBlocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Commits) == 0 {
			continue
		}
		projectBlocks = append(projectBlocks, formatter.formatEntry(entry))
	}

	if len(projectBlocks) == 0 {
		return NoActivityMarker
	}
	return strings.Join(projectBlocks, projectSeparatorConstant)
}

// FormatCommit renders a single commit line.
func (formatter Formatter) FormatCommit(commit history.CommitRecord) string {
	return fmt.Sprintf(commitLineTemplateConstant,
		commit.Timestamp.In(formatter.location).Format(commitTimestampLayoutConstant),
		ShortHash(commit.Hash),
		commit.Author,
		commit.Message,
	)
}

func (formatter Formatter) formatEntry(entry Entry) string {
	lines := make([]string, 0, len(entry.Commits)+1)
	lines = append(lines, fmt.Sprintf(projectHeaderTemplateConstant, entry.Repository.Name, len(entry.Commits)))
	for _, commit := range entry.Commits {
		lines = append(lines, formatter.FormatCommit(commit))
	}
	return strings.Join(lines, lineSeparatorConstant)
}

// ShortHash abbreviates a commit hash to seven characters.
func ShortHash(hash string) string {
	if len(hash) <= shortHashLengthConstant {
		return hash
	}
	return hash[:shortHashLengthConstant]
}

// IsNoActivity reports whether text is the no-activity marker.
func IsNoActivity(text string) bool {
	return text == NoActivityMarker
}
