package discovery

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	repoerrors "github.com/temirov/gitdigest/internal/repos/errors"
	"github.com/temirov/gitdigest/internal/repos/filesystem"
	"github.com/temirov/gitdigest/internal/repos/shared"
	pathutils "github.com/temirov/gitdigest/internal/utils/path"
)

const (
	gitMetadataEntryNameConstant      = ".git"
	rootFolderFieldNameConstant       = "root folder"
	excludePatternFieldNameConstant   = "exclude pattern"
	rootFolderRequiredMessageConstant = "root folder must be provided"
	rootFolderNotDirectoryMessage     = "not a directory"
)

var (
	errRootFolderRequired     = errors.New(rootFolderRequiredMessageConstant)
	errRootFolderNotDirectory = errors.New(rootFolderNotDirectoryMessage)
)

// Repository identifies a discovered git working copy.
type Repository struct {
	Path string
	Name string
}

// RepositoryScanner lists the immediate children of a root folder that carry git metadata.
type RepositoryScanner struct {
	fileSystem      shared.FileSystem
	homeExpander    *pathutils.HomeExpander
	excludePatterns []string
}

// NewRepositoryScanner constructs a scanner. A nil fileSystem or homeExpander falls back to the OS defaults.
func NewRepositoryScanner(fileSystem shared.FileSystem, homeExpander *pathutils.HomeExpander, excludePatterns []string) *RepositoryScanner {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}

	sanitizedPatterns := make([]string, 0, len(excludePatterns))
	for _, pattern := range excludePatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if len(trimmedPattern) == 0 {
			continue
		}
		sanitizedPatterns = append(sanitizedPatterns, trimmedPattern)
	}

	return &RepositoryScanner{
		fileSystem:      fileSystem,
		homeExpander:    homeExpander,
		excludePatterns: sanitizedPatterns,
	}
}

// Scan returns the repositories directly beneath rootFolder ordered by directory name.
// A missing or non-directory root yields repoerrors.InvalidInputError.
func (scanner *RepositoryScanner) Scan(rootFolder string) ([]Repository, error) {
	trimmedRoot := strings.TrimSpace(rootFolder)
	if len(trimmedRoot) == 0 {
		return nil, repoerrors.InvalidInputError{Field: rootFolderFieldNameConstant, Value: rootFolder, Cause: errRootFolderRequired}
	}

	for _, pattern := range scanner.excludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, repoerrors.InvalidInputError{Field: excludePatternFieldNameConstant, Value: pattern, Cause: doublestar.ErrBadPattern}
		}
	}

	expandedRoot := filepath.Clean(scanner.homeExpander.Expand(trimmedRoot))
	rootInfo, statError := scanner.fileSystem.Stat(expandedRoot)
	if statError != nil {
		return nil, repoerrors.InvalidInputError{Field: rootFolderFieldNameConstant, Value: rootFolder, Cause: statError}
	}
	if !rootInfo.IsDir() {
		return nil, repoerrors.InvalidInputError{Field: rootFolderFieldNameConstant, Value: rootFolder, Cause: errRootFolderNotDirectory}
	}

	directoryEntries, readError := scanner.fileSystem.ReadDir(expandedRoot)
	if readError != nil {
		return nil, repoerrors.InvalidInputError{Field: rootFolderFieldNameConstant, Value: rootFolder, Cause: readError}
	}

	repositories := make([]Repository, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childName := directoryEntry.Name()
		if scanner.isExcluded(childName) {
			continue
		}

		childPath := filepath.Join(expandedRoot, childName)
		if !scanner.isRepository(childPath) {
			continue
		}

		repositories = append(repositories, Repository{Path: childPath, Name: childName})
	}

	sort.Slice(repositories, func(first int, second int) bool {
		return repositories[first].Name < repositories[second].Name
	})

	return repositories, nil
}

func (scanner *RepositoryScanner) isRepository(childPath string) bool {
	childInfo, childError := scanner.fileSystem.Stat(childPath)
	if childError != nil || !childInfo.IsDir() {
		return false
	}

	_, metadataError := scanner.fileSystem.Stat(filepath.Join(childPath, gitMetadataEntryNameConstant))
	return metadataError == nil
}

func (scanner *RepositoryScanner) isExcluded(childName string) bool {
	for _, pattern := range scanner.excludePatterns {
		if matched, _ := doublestar.Match(pattern, childName); matched {
			return true
		}
	}
	return false
}
