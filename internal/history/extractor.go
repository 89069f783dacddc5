package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitdigest/internal/repos/discovery"
	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
)

const (
	historyQueryMissingErrorConstant        = "history query not configured"
	malformedRecordErrorTemplateConstant    = "malformed history record %q: expected %d fields, found %d"
	malformedTimestampErrorTemplateConstant = "malformed commit timestamp %q: %w"
	emptyHashErrorTemplateConstant          = "malformed history record %q: empty commit hash"

	logMessageRecordOutsideRange = "Dropping commit outside of date range"
	logMessageExtractedCommits   = "Extracted commits"
	logFieldRepository           = "repository"
	logFieldCommitHash           = "commit"
	logFieldCommitCount          = "commits"
	logFieldDateRange            = "date_range"
)

// ErrHistoryQueryNotConfigured indicates that CommitExtractor was built without a query.
var ErrHistoryQueryNotConfigured = errors.New(historyQueryMissingErrorConstant)

// CommitExtractor turns raw history records into filtered, ordered commit records.
type CommitExtractor struct {
	query  HistoryQuery
	logger *zap.Logger
}

// NewCommitExtractor constructs an extractor backed by query.
func NewCommitExtractor(query HistoryQuery, logger *zap.Logger) (*CommitExtractor, error) {
	if query == nil {
		return nil, ErrHistoryQueryNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommitExtractor{query: query, logger: logger}, nil
}

// EnsureAvailable verifies that the history backend can run.
func (extractor *CommitExtractor) EnsureAvailable(executionContext context.Context) error {
	availabilityError := extractor.query.EnsureAvailable(executionContext)
	if availabilityError == nil {
		return nil
	}
	var toolUnavailable repoerrors.ToolUnavailableError
	if errors.As(availabilityError, &toolUnavailable) {
		return toolUnavailable
	}
	return repoerrors.ToolUnavailableError{Tool: gitToolNameConstant, Cause: availabilityError}
}

// Extract returns the commits of repository committed within dateRange by an allowed author,
// ordered by ascending timestamp with ties broken by hash.
func (extractor *CommitExtractor) Extract(executionContext context.Context, repository discovery.Repository, dateRange DateRange, authors AuthorFilter) ([]CommitRecord, error) {
	rawRecords, queryError := extractor.query.Query(executionContext, repository.Path, dateRange)
	if queryError != nil {
		var toolUnavailable repoerrors.ToolUnavailableError
		if errors.As(queryError, &toolUnavailable) {
			return nil, toolUnavailable
		}
		return nil, repoerrors.RepositoryExtractionError{Repository: repository.Name, Cause: queryError}
	}

	parsedRecords, parseError := ParseRecords(repository, rawRecords)
	if parseError != nil {
		return nil, repoerrors.RepositoryExtractionError{Repository: repository.Name, Cause: parseError}
	}

	commits := make([]CommitRecord, 0, len(parsedRecords))
	for _, record := range parsedRecords {
		if !dateRange.Contains(record.Timestamp) {
			extractor.logger.Debug(logMessageRecordOutsideRange,
				zap.String(logFieldRepository, repository.Name),
				zap.String(logFieldCommitHash, record.Hash),
			)
			continue
		}
		if !authors.Allows(record.Author) {
			continue
		}
		commits = append(commits, record)
	}

	SortCommits(commits)

	extractor.logger.Debug(logMessageExtractedCommits,
		zap.String(logFieldRepository, repository.Name),
		zap.String(logFieldDateRange, dateRange.Label()),
		zap.Int(logFieldCommitCount, len(commits)),
	)

	return commits, nil
}

// ParseRecords decodes raw history records produced by a HistoryQuery.
func ParseRecords(repository discovery.Repository, rawRecords []string) ([]CommitRecord, error) {
	records := make([]CommitRecord, 0, len(rawRecords))
	for _, rawRecord := range rawRecords {
		record, parseError := parseRecord(repository, rawRecord)
		if parseError != nil {
			return nil, parseError
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRecord(repository discovery.Repository, rawRecord string) (CommitRecord, error) {
	fields := strings.SplitN(rawRecord, recordFieldSeparatorConstant, recordFieldCountConstant)
	if len(fields) != recordFieldCountConstant {
		return CommitRecord{}, fmt.Errorf(malformedRecordErrorTemplateConstant, rawRecord, recordFieldCountConstant, len(fields))
	}

	hash := strings.TrimSpace(fields[0])
	if len(hash) == 0 {
		return CommitRecord{}, fmt.Errorf(emptyHashErrorTemplateConstant, rawRecord)
	}

	timestamp, timestampError := time.Parse(recordTimestampLayout, strings.TrimSpace(fields[3]))
	if timestampError != nil {
		return CommitRecord{}, fmt.Errorf(malformedTimestampErrorTemplateConstant, fields[3], timestampError)
	}

	return CommitRecord{
		Repository:  repository,
		Hash:        hash,
		Author:      strings.TrimSpace(fields[1]),
		AuthorEmail: strings.TrimSpace(fields[2]),
		Timestamp:   timestamp,
		Message:     subjectLine(fields[4]),
	}, nil
}

// SortCommits orders commits by ascending timestamp, breaking ties by hash.
func SortCommits(commits []CommitRecord) {
	sort.SliceStable(commits, func(left int, right int) bool {
		if !commits[left].Timestamp.Equal(commits[right].Timestamp) {
			return commits[left].Timestamp.Before(commits[right].Timestamp)
		}
		return commits[left].Hash < commits[right].Hash
	})
}
