package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

const (
	openRepositoryErrorTemplateConstant = "failed to open repository: %w"
	resolveHeadErrorTemplateConstant    = "failed to resolve HEAD: %w"
	logErrorTemplateConstant            = "failed to read commit log: %w"
)

// GoGitHistoryQuery reads history in-process with go-git, so no external tool is required.
type GoGitHistoryQuery struct {
	allBranches bool
}

// NewGoGitHistoryQuery constructs a query over HEAD, or every ref when allBranches is set.
func NewGoGitHistoryQuery(allBranches bool) *GoGitHistoryQuery {
	return &GoGitHistoryQuery{allBranches: allBranches}
}

// EnsureAvailable always succeeds.
func (query *GoGitHistoryQuery) EnsureAvailable(context.Context) error {
	return nil
}

// Query walks the commit log of repositoryPath and emits commits committed within dateRange.
func (query *GoGitHistoryQuery) Query(executionContext context.Context, repositoryPath string, dateRange DateRange) ([]string, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, openError)
	}

	since := dateRange.Since()
	until := dateRange.Until()
	logOptions := &git.LogOptions{
		Since: &since,
		Until: &until,
		Order: git.LogOrderCommitterTime,
	}
	if query.allBranches {
		logOptions.All = true
	} else {
		headReference, headError := repository.Head()
		if headError != nil {
			return nil, fmt.Errorf(resolveHeadErrorTemplateConstant, headError)
		}
		logOptions.From = headReference.Hash()
	}

	commitIterator, logError := repository.Log(logOptions)
	if logError != nil {
		if errors.Is(logError, plumbing.ErrReferenceNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf(logErrorTemplateConstant, logError)
	}
	defer commitIterator.Close()

	rawRecords := make([]string, 0)
	iterationError := commitIterator.ForEach(func(commit *object.Commit) error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		rawRecords = append(rawRecords, FormatRawRecord(
			commit.Hash.String(),
			commit.Author.Name,
			commit.Author.Email,
			commit.Committer.When,
			commit.Message,
		))
		return nil
	})
	if iterationError != nil && !errors.Is(iterationError, storer.ErrStop) {
		return nil, fmt.Errorf(logErrorTemplateConstant, iterationError)
	}

	return rawRecords, nil
}
