package summarize

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
)

// OutputFormat selects how a Report is written to standard output.
type OutputFormat string

const (
	// OutputFormatText prints the summary, digest, or no-activity marker.
	OutputFormatText OutputFormat = "text"
	// OutputFormatYAML prints a structured report document.
	OutputFormatYAML OutputFormat = "yaml"

	outputFormatFieldNameConstant       = "output format"
	unknownOutputFormatMessageConstant  = "supported formats are text and yaml"
	yamlIndentationConstant             = 2
	reportCalendarDateLayoutConstant    = "2006-01-02"
	textOutputTemplateConstant          = "%s\n"
	reportEncodingErrorTemplateConstant = "failed to encode report: %w"
)

var errUnknownOutputFormat = errors.New(unknownOutputFormatMessageConstant)

// SupportedOutputFormats lists the accepted output format names.
func SupportedOutputFormats() []string {
	return []string{string(OutputFormatText), string(OutputFormatYAML)}
}

// ParseOutputFormat resolves an output format name, treating an empty value as text.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", OutputFormatText:
		return OutputFormatText, nil
	case OutputFormatYAML:
		return OutputFormatYAML, nil
	default:
		return "", repoerrors.InvalidInputError{Field: outputFormatFieldNameConstant, Value: value, Cause: errUnknownOutputFormat}
	}
}

type reportDocument struct {
	DateRange    string               `yaml:"date_range"`
	StartDate    string               `yaml:"start_date"`
	EndDate      string               `yaml:"end_date"`
	Authors      []string             `yaml:"authors,omitempty"`
	Repositories []repositoryDocument `yaml:"repositories"`
	NoActivity   bool                 `yaml:"no_activity"`
	DryRun       bool                 `yaml:"dry_run,omitempty"`
	Digest       string               `yaml:"digest"`
	Summary      string               `yaml:"summary,omitempty"`
}

type repositoryDocument struct {
	Name    string           `yaml:"name"`
	Path    string           `yaml:"path"`
	Commits []commitDocument `yaml:"commits,omitempty"`
	Error   string           `yaml:"error,omitempty"`
}

type commitDocument struct {
	Hash      string `yaml:"hash"`
	Author    string `yaml:"author"`
	Email     string `yaml:"email,omitempty"`
	Timestamp string `yaml:"timestamp"`
	Message   string `yaml:"message"`
}

// WriteReport renders report to writer in the requested format.
func WriteReport(writer io.Writer, report Report, format OutputFormat) error {
	if format != OutputFormatYAML {
		_, writeError := fmt.Fprintf(writer, textOutputTemplateConstant, report.Output())
		return writeError
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentationConstant)
	if encodeError := encoder.Encode(buildReportDocument(report)); encodeError != nil {
		return fmt.Errorf(reportEncodingErrorTemplateConstant, encodeError)
	}
	return encoder.Close()
}

func buildReportDocument(report Report) reportDocument {
	location := report.DateRange.Location()
	document := reportDocument{
		DateRange:    report.DateRange.Label(),
		StartDate:    report.DateRange.Start().Format(reportCalendarDateLayoutConstant),
		EndDate:      report.DateRange.End().Format(reportCalendarDateLayoutConstant),
		Authors:      report.Authors,
		Repositories: make([]repositoryDocument, 0, len(report.Repositories)),
		NoActivity:   report.NoActivity,
		DryRun:       report.DryRun,
		Digest:       report.Digest,
		Summary:      report.Summary,
	}

	for _, activity := range report.Repositories {
		repository := repositoryDocument{
			Name: activity.Repository.Name,
			Path: activity.Repository.Path,
		}
		if activity.Failure != nil {
			repository.Error = activity.Failure.Error()
		}
		for _, commit := range activity.Commits {
			repository.Commits = append(repository.Commits, commitDocument{
				Hash:      commit.Hash,
				Author:    commit.Author,
				Email:     commit.AuthorEmail,
				Timestamp: formatTimestamp(commit.Timestamp, location),
				Message:   commit.Message,
			})
		}
		document.Repositories = append(document.Repositories, repository)
	}

	return document
}
