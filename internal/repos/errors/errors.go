// Package repoerrors defines the error taxonomy shared by the digest pipeline.
//
// Only RepositoryExtractionError is recovered locally (the repository is
// excluded from the digest); every other type aborts the run.
package repoerrors

import (
	"fmt"
	"strings"
)

const (
	invalidInputTemplateConstant         = "invalid %s %q"
	invalidInputCauseTemplateConstant    = "invalid %s %q: %v"
	toolUnavailableTemplateConstant      = "%s is not available"
	toolUnavailableCauseTemplateConstant = "%s is not available: %v"
	extractionTemplateConstant           = "unable to read history of %s: %v"
	summaryServiceTemplateConstant       = "summary service request to %s failed: %v"
	summaryServiceStatusTemplateConstant = "summary service request to %s failed with status %d: %v"
	unknownEndpointLabelConstant         = "summary endpoint"
	unknownRepositoryLabelConstant       = "repository"
	missingCauseMessageConstant          = "unknown error"
)

// InvalidInputError reports a rejected root folder or date selection.
type InvalidInputError struct {
	Field string
	Value string
	Cause error
}

// Error describes the rejected input.
func (inputError InvalidInputError) Error() string {
	if inputError.Cause == nil {
		return fmt.Sprintf(invalidInputTemplateConstant, inputError.Field, inputError.Value)
	}
	return fmt.Sprintf(invalidInputCauseTemplateConstant, inputError.Field, inputError.Value, inputError.Cause)
}

// Unwrap exposes the underlying cause.
func (inputError InvalidInputError) Unwrap() error {
	return inputError.Cause
}

// ToolUnavailableError reports that the version-control executable cannot be launched.
type ToolUnavailableError struct {
	Tool  string
	Cause error
}

// Error describes the missing tool.
func (toolError ToolUnavailableError) Error() string {
	if toolError.Cause == nil {
		return fmt.Sprintf(toolUnavailableTemplateConstant, toolError.Tool)
	}
	return fmt.Sprintf(toolUnavailableCauseTemplateConstant, toolError.Tool, toolError.Cause)
}

// Unwrap exposes the underlying cause.
func (toolError ToolUnavailableError) Unwrap() error {
	return toolError.Cause
}

// RepositoryExtractionError reports a history query failure scoped to one repository.
type RepositoryExtractionError struct {
	Repository string
	Cause      error
}

// Error names the repository and the failure.
func (extractionError RepositoryExtractionError) Error() string {
	repository := strings.TrimSpace(extractionError.Repository)
	if len(repository) == 0 {
		repository = unknownRepositoryLabelConstant
	}
	return fmt.Sprintf(extractionTemplateConstant, repository, describeCause(extractionError.Cause))
}

// Unwrap exposes the underlying cause.
func (extractionError RepositoryExtractionError) Unwrap() error {
	return extractionError.Cause
}

// SummaryServiceError reports a transport, authentication, or remote failure of the summarization backend.
type SummaryServiceError struct {
	Endpoint   string
	StatusCode int
	Cause      error
}

// Error describes the failed request.
func (serviceError SummaryServiceError) Error() string {
	endpoint := strings.TrimSpace(serviceError.Endpoint)
	if len(endpoint) == 0 {
		endpoint = unknownEndpointLabelConstant
	}
	if serviceError.StatusCode > 0 {
		return fmt.Sprintf(summaryServiceStatusTemplateConstant, endpoint, serviceError.StatusCode, describeCause(serviceError.Cause))
	}
	return fmt.Sprintf(summaryServiceTemplateConstant, endpoint, describeCause(serviceError.Cause))
}

// Unwrap exposes the underlying cause.
func (serviceError SummaryServiceError) Unwrap() error {
	return serviceError.Cause
}

func describeCause(cause error) string {
	if cause == nil {
		return missingCauseMessageConstant
	}
	return cause.Error()
}
