package summarize

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitdigest/internal/digest"
	"github.com/temirov/gitdigest/internal/history"
	"github.com/temirov/gitdigest/internal/repos/discovery"
	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
	"github.com/temirov/gitdigest/internal/repos/shared"
	"github.com/temirov/gitdigest/internal/summary"
)

const (
	scannerMissingMessageConstant    = "repository scanner not configured"
	extractorMissingMessageConstant  = "commit extractor not configured"
	summarizerMissingMessageConstant = "summarizer not configured"

	progressScanningTemplateConstant       = "Scanning for git projects in: %s\n"
	progressLookingTemplateConstant        = "Looking for commits on %s...\n"
	progressFoundRepositoriesTemplate      = "Found %d git repositories\n"
	progressNoRepositoriesTemplateConstant = "No git repositories found in %s\n"
	progressFoundCommitsTemplateConstant   = "Found %d commits in %s\n"
	progressCommitLineTemplateConstant     = "\t%s\n"
	progressSkippedRepositoryTemplate      = "Skipping %s: %v\n"
	progressRequestingSummaryTemplate      = "Summarizing %d commits across %d projects...\n"
	progressDryRunMessageConstant          = "Dry run: summary request skipped\n"

	logMessageRepositorySkipped   = "Skipping repository after extraction failure"
	logMessageRepositoriesFound   = "Discovered repositories"
	logMessageNoActivity          = "No activity found; summary request skipped"
	logMessageSummaryCompleted    = "Summary completed"
	logFieldRepositoryName        = "repository"
	logFieldRepositoryCount       = "repositories"
	logFieldRootFolder            = "root"
	logFieldDateRangeLabel        = "date_range"
	logFieldCommitCount           = "commits"
	logFieldActiveRepositoryCount = "active_repositories"
)

var (
	errScannerMissing    = errors.New(scannerMissingMessageConstant)
	errExtractorMissing  = errors.New(extractorMissingMessageConstant)
	errSummarizerMissing = errors.New(summarizerMissingMessageConstant)
)

// RepositoryScanner discovers repositories beneath a root folder.
type RepositoryScanner interface {
	Scan(rootFolder string) ([]discovery.Repository, error)
}

// CommitExtractor reads commit records from a single repository.
type CommitExtractor interface {
	EnsureAvailable(executionContext context.Context) error
	Extract(executionContext context.Context, repository discovery.Repository, dateRange history.DateRange, authors history.AuthorFilter) ([]history.CommitRecord, error)
}

// Options configures a single summarize run.
type Options struct {
	RootFolder    string
	DateSelection string
	AuthorNames   string
	DryRun        bool
}

// RepositoryActivity records the outcome of extracting one repository.
type RepositoryActivity struct {
	Repository discovery.Repository
	Commits    []history.CommitRecord
	Failure    error
}

// Report describes the result of a summarize run.
type Report struct {
	DateRange    history.DateRange
	Authors      []string
	Repositories []RepositoryActivity
	Digest       string
	Summary      string
	NoActivity   bool
	DryRun       bool
}

// Output returns the text printed for the run: the summary when one was produced, otherwise the digest
// or the no-activity marker.
func (report Report) Output() string {
	if len(report.Summary) > 0 {
		return report.Summary
	}
	return report.Digest
}

// CommitCount returns the number of commits included in the digest.
func (report Report) CommitCount() int {
	total := 0
	for _, activity := range report.Repositories {
		total += len(activity.Commits)
	}
	return total
}

// ServiceDependencies enumerates collaborators required by the summarize service.
type ServiceDependencies struct {
	Logger     *zap.Logger
	Scanner    RepositoryScanner
	Extractor  CommitExtractor
	Summarizer summary.Summarizer
	Clock      shared.Clock
	Reporter   shared.Reporter
}

// Service runs the discovery, extraction, formatting, and summarization sequence.
type Service struct {
	logger     *zap.Logger
	scanner    RepositoryScanner
	extractor  CommitExtractor
	summarizer summary.Summarizer
	clock      shared.Clock
	reporter   shared.Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Scanner == nil {
		return nil, errScannerMissing
	}
	if dependencies.Extractor == nil {
		return nil, errExtractorMissing
	}
	if dependencies.Summarizer == nil {
		return nil, errSummarizerMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = shared.SystemClock{}
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewDiscardReporter()
	}

	return &Service{
		logger:     logger,
		scanner:    dependencies.Scanner,
		extractor:  dependencies.Extractor,
		summarizer: dependencies.Summarizer,
		clock:      clock,
		reporter:   reporter,
	}, nil
}

// Run executes one summarize pass. Only per-repository extraction failures are tolerated;
// every other error is returned unchanged.
func (service *Service) Run(executionContext context.Context, options Options) (Report, error) {
	now := service.clock.Now()
	dateRange, selectionError := ResolveDateSelection(options.DateSelection, now)
	if selectionError != nil {
		return Report{}, selectionError
	}
	authors := history.ParseAuthorFilter(options.AuthorNames)

	report := Report{DateRange: dateRange, Authors: authors.Names(), DryRun: options.DryRun}

	if availabilityError := service.extractor.EnsureAvailable(executionContext); availabilityError != nil {
		return Report{}, availabilityError
	}

	service.reporter.Printf(progressScanningTemplateConstant, options.RootFolder)
	service.reporter.Printf(progressLookingTemplateConstant, dateRange.Label())

	repositories, scanError := service.scanner.Scan(options.RootFolder)
	if scanError != nil {
		return Report{}, scanError
	}

	service.logger.Info(logMessageRepositoriesFound,
		zap.String(logFieldRootFolder, options.RootFolder),
		zap.Int(logFieldRepositoryCount, len(repositories)),
	)

	if len(repositories) == 0 {
		service.reporter.Printf(progressNoRepositoriesTemplateConstant, options.RootFolder)
		return service.finishWithoutActivity(report), nil
	}
	service.reporter.Printf(progressFoundRepositoriesTemplate, len(repositories))

	formatter := digest.NewFormatter(dateRange.Location())
	entries := make([]digest.Entry, 0, len(repositories))
	for _, repository := range repositories {
		if contextError := executionContext.Err(); contextError != nil {
			return Report{}, contextError
		}

		commits, extractError := service.extractor.Extract(executionContext, repository, dateRange, authors)
		if extractError != nil {
			var toolUnavailable repoerrors.ToolUnavailableError
			if errors.As(extractError, &toolUnavailable) {
				return Report{}, extractError
			}
			service.logger.Warn(logMessageRepositorySkipped,
				zap.String(logFieldRepositoryName, repository.Name),
				zap.Error(extractError),
			)
			service.reporter.Printf(progressSkippedRepositoryTemplate, repository.Name, extractError)
			report.Repositories = append(report.Repositories, RepositoryActivity{Repository: repository, Failure: extractError})
			continue
		}

		report.Repositories = append(report.Repositories, RepositoryActivity{Repository: repository, Commits: commits})
		entries = append(entries, digest.Entry{Repository: repository, Commits: commits})

		if len(commits) == 0 {
			continue
		}
		service.reporter.Highlightf(progressFoundCommitsTemplateConstant, len(commits), repository.Name)
		for _, commit := range commits {
			service.reporter.Printf(progressCommitLineTemplateConstant, formatter.FormatCommit(commit))
		}
	}

	report.Digest = formatter.Format(entries)
	if digest.IsNoActivity(report.Digest) {
		return service.finishWithoutActivity(report), nil
	}

	if options.DryRun {
		service.reporter.Printf(progressDryRunMessageConstant)
		return report, nil
	}

	activeRepositoryCount := countActiveRepositories(report.Repositories)
	service.reporter.Printf(progressRequestingSummaryTemplate, report.CommitCount(), activeRepositoryCount)

	summaryText, summarizeError := service.summarizer.Summarize(executionContext, report.Digest, dateRange.Label())
	if summarizeError != nil {
		return Report{}, summarizeError
	}
	report.Summary = summaryText

	service.logger.Info(logMessageSummaryCompleted,
		zap.String(logFieldDateRangeLabel, dateRange.Label()),
		zap.Int(logFieldCommitCount, report.CommitCount()),
		zap.Int(logFieldActiveRepositoryCount, activeRepositoryCount),
	)

	return report, nil
}

func (service *Service) finishWithoutActivity(report Report) Report {
	report.Digest = digest.NoActivityMarker
	report.NoActivity = true
	service.logger.Info(logMessageNoActivity, zap.String(logFieldDateRangeLabel, report.DateRange.Label()))
	return report
}

func countActiveRepositories(activities []RepositoryActivity) int {
	active := 0
	for _, activity := range activities {
		if len(activity.Commits) > 0 {
			active++
		}
	}
	return active
}

func formatTimestamp(instant time.Time, location *time.Location) string {
	return instant.In(location).Format(time.RFC3339)
}
