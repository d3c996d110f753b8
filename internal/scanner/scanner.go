package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/ghostbuster/internal/exclusion"
	"github.com/temirov/ghostbuster/internal/submodules"
)

const (
	defaultWorkerCountConstant        = 1
	invalidRootTemplateConstant       = "%w: %s"
	notDirectoryMessageConstant       = "%w: %s is not a directory"
	walkErrorTemplateConstant         = "unable to walk repository %s: %w"
	directoryPrunedMessageConstant    = "excluded directory pruned"
	fileUnreadableMessageConstant     = "file unreadable, treating as unreferenced"
	scanCompletedMessageConstant      = "reference scan completed"
	logFieldPathConstant              = "path"
	logFieldErrorConstant             = "error"
	logFieldRepositoryRootConstant    = "repository_root"
	logFieldFilesScannedConstant      = "files_scanned"
	logFieldFilesUnreadableConstant   = "files_unreadable"
	logFieldDirectoriesPrunedConstant = "directories_pruned"
	logFieldWorkerCountConstant       = "workers"
	logFieldSubmoduleCountConstant    = "submodules"
)

// ErrInvalidRepositoryRoot indicates that the repository root is missing, inaccessible, or not a directory.
var ErrInvalidRepositoryRoot = errors.New("invalid repository root")

// ScanResult carries the reference index together with scan diagnostics.
type ScanResult struct {
	Index             ReferenceIndex
	FilesScanned      int
	FilesUnreadable   int
	DirectoriesPruned int
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithFileSystem overrides the filesystem used for traversal and reads.
func WithFileSystem(fileSystem FileSystem) Option {
	return func(scanner *Scanner) {
		if fileSystem != nil {
			scanner.fileSystem = fileSystem
		}
	}
}

// WithWorkerCount bounds the number of concurrent file reads; values below one select sequential scanning.
func WithWorkerCount(workerCount int) Option {
	return func(scanner *Scanner) {
		if workerCount < defaultWorkerCountConstant {
			workerCount = defaultWorkerCountConstant
		}
		scanner.workerCount = workerCount
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(scanner *Scanner) {
		if logger != nil {
			scanner.logger = logger
		}
	}
}

// Scanner searches repository files for submodule path references.
type Scanner struct {
	policy      exclusion.Policy
	fileSystem  FileSystem
	workerCount int
	logger      *zap.Logger
}

type fileCandidate struct {
	absolutePath string
	relativePath string
}

type fileOutcome struct {
	unreadable     bool
	matchedIndexes []int
}

// NewScanner constructs a Scanner bound to an exclusion policy.
func NewScanner(policy exclusion.Policy, options ...Option) *Scanner {
	scanner := &Scanner{
		policy:      policy,
		fileSystem:  OSFileSystem{},
		workerCount: defaultWorkerCountConstant,
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(scanner)
	}
	return scanner
}

// Scan walks repositoryRoot and indexes every file that mentions a declared submodule path.
// Only an invalid root or cancellation fails the scan.
func (scanner *Scanner) Scan(executionContext context.Context, repositoryRoot string, submodulePaths []submodules.SubmodulePath) (ScanResult, error) {
	resolvedRoot, rootError := scanner.resolveRoot(repositoryRoot)
	if rootError != nil {
		return ScanResult{}, rootError
	}

	candidates, directoriesPruned, collectError := scanner.collectCandidates(executionContext, resolvedRoot)
	if collectError != nil {
		return ScanResult{}, collectError
	}

	outcomes, inspectError := scanner.inspectCandidates(executionContext, candidates, submodulePaths)
	if inspectError != nil {
		return ScanResult{}, inspectError
	}

	result := ScanResult{
		Index:             NewReferenceIndex(submodulePaths),
		DirectoriesPruned: directoriesPruned,
	}
	for candidateIndex, outcome := range outcomes {
		if outcome.unreadable {
			result.FilesUnreadable++
			continue
		}
		result.FilesScanned++
		for _, submoduleIndex := range outcome.matchedIndexes {
			result.Index.record(submodulePaths[submoduleIndex], candidates[candidateIndex].relativePath)
		}
	}

	scanner.logger.Debug(
		scanCompletedMessageConstant,
		zap.String(logFieldRepositoryRootConstant, resolvedRoot),
		zap.Int(logFieldSubmoduleCountConstant, len(submodulePaths)),
		zap.Int(logFieldFilesScannedConstant, result.FilesScanned),
		zap.Int(logFieldFilesUnreadableConstant, result.FilesUnreadable),
		zap.Int(logFieldDirectoriesPrunedConstant, result.DirectoriesPruned),
		zap.Int(logFieldWorkerCountConstant, scanner.workerCount),
	)

	return result, nil
}

func (scanner *Scanner) resolveRoot(repositoryRoot string) (string, error) {
	resolvedRoot, resolveError := scanner.fileSystem.EvalSymlinks(repositoryRoot)
	if resolveError != nil {
		return "", fmt.Errorf(invalidRootTemplateConstant, ErrInvalidRepositoryRoot, resolveError)
	}

	rootInfo, statError := scanner.fileSystem.Stat(resolvedRoot)
	if statError != nil {
		return "", fmt.Errorf(invalidRootTemplateConstant, ErrInvalidRepositoryRoot, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(notDirectoryMessageConstant, ErrInvalidRepositoryRoot, repositoryRoot)
	}

	return resolvedRoot, nil
}

// collectCandidates lists readable, non-excluded files depth first in lexical order.
func (scanner *Scanner) collectCandidates(executionContext context.Context, repositoryRoot string) ([]fileCandidate, int, error) {
	var candidates []fileCandidate
	directoriesPruned := 0

	walkError := scanner.fileSystem.WalkDir(repositoryRoot, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		if walkError != nil {
			if path == repositoryRoot {
				return walkError
			}
			return nil
		}

		if directoryEntry.IsDir() {
			if path != repositoryRoot && scanner.policy.ExcludesDirectory(directoryEntry.Name()) {
				directoriesPruned++
				scanner.logger.Debug(directoryPrunedMessageConstant, zap.String(logFieldPathConstant, path))
				return fs.SkipDir
			}
			return nil
		}

		if scanner.policy.ExcludesFile(directoryEntry.Name()) {
			return nil
		}

		relativePath, relativeError := filepath.Rel(repositoryRoot, path)
		if relativeError != nil {
			return nil
		}
		relativePath = filepath.ToSlash(relativePath)

		if scanner.policy.ExcludesRelativePath(relativePath) {
			return nil
		}

		if !scanner.isFileCandidate(path, directoryEntry) {
			return nil
		}

		candidates = append(candidates, fileCandidate{absolutePath: path, relativePath: relativePath})
		return nil
	})
	if walkError != nil {
		if errors.Is(walkError, context.Canceled) || errors.Is(walkError, context.DeadlineExceeded) {
			return nil, 0, walkError
		}
		return nil, 0, fmt.Errorf(walkErrorTemplateConstant, repositoryRoot, walkError)
	}

	return candidates, directoriesPruned, nil
}

// isFileCandidate admits regular files and symbolic links that do not resolve to
// directories or special files. Broken links stay candidates and fail on read.
func (scanner *Scanner) isFileCandidate(path string, directoryEntry fs.DirEntry) bool {
	entryType := directoryEntry.Type()
	if entryType.IsRegular() {
		return true
	}
	if entryType&fs.ModeSymlink == 0 {
		return false
	}

	targetInfo, statError := scanner.fileSystem.Stat(path)
	if statError != nil {
		return true
	}
	return targetInfo.Mode().IsRegular()
}

func (scanner *Scanner) inspectCandidates(executionContext context.Context, candidates []fileCandidate, submodulePaths []submodules.SubmodulePath) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(candidates))

	if scanner.workerCount <= defaultWorkerCountConstant {
		for candidateIndex := range candidates {
			if contextError := executionContext.Err(); contextError != nil {
				return nil, contextError
			}
			outcomes[candidateIndex] = scanner.inspectCandidate(candidates[candidateIndex], submodulePaths)
		}
		return outcomes, nil
	}

	workerGroup, groupContext := errgroup.WithContext(executionContext)
	workerGroup.SetLimit(scanner.workerCount)
	for candidateIndex := range candidates {
		candidateIndex := candidateIndex
		workerGroup.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			outcomes[candidateIndex] = scanner.inspectCandidate(candidates[candidateIndex], submodulePaths)
			return nil
		})
	}
	if waitError := workerGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	return outcomes, nil
}

func (scanner *Scanner) inspectCandidate(candidate fileCandidate, submodulePaths []submodules.SubmodulePath) fileOutcome {
	rawContent, readError := scanner.fileSystem.ReadFile(candidate.absolutePath)
	if readError != nil {
		scanner.logger.Debug(
			fileUnreadableMessageConstant,
			zap.String(logFieldPathConstant, candidate.relativePath),
			zap.String(logFieldErrorConstant, readError.Error()),
		)
		return fileOutcome{unreadable: true}
	}

	content := decodeLeniently(rawContent)

	var matchedIndexes []int
	for submoduleIndex, submodulePath := range submodulePaths {
		if strings.Contains(content, string(submodulePath)) {
			matchedIndexes = append(matchedIndexes, submoduleIndex)
		}
	}
	return fileOutcome{matchedIndexes: matchedIndexes}
}
