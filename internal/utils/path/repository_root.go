package pathutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// ErrEmptyRepositoryRoot indicates that a blank repository root argument was supplied.
var ErrEmptyRepositoryRoot = errors.New("repository root is empty")

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// RepositoryRootResolver turns a user supplied repository argument into a clean absolute path.
type RepositoryRootResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewRepositoryRootResolver constructs a resolver using the operating system home lookup.
func NewRepositoryRootResolver() *RepositoryRootResolver {
	return NewRepositoryRootResolverWithProvider(os.UserHomeDir)
}

// NewRepositoryRootResolverWithProvider constructs a resolver with a custom home directory provider.
func NewRepositoryRootResolverWithProvider(provider HomeDirectoryProvider) *RepositoryRootResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &RepositoryRootResolver{homeDirectoryProvider: provider}
}

// Resolve trims whitespace, expands a leading tilde, and returns the absolute, cleaned path.
func (resolver *RepositoryRootResolver) Resolve(candidatePath string) (string, error) {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		return "", ErrEmptyRepositoryRoot
	}

	absolutePath, absoluteError := filepath.Abs(resolver.expandHome(trimmedCandidate))
	if absoluteError != nil {
		return "", absoluteError
	}
	return filepath.Clean(absolutePath), nil
}

func (resolver *RepositoryRootResolver) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	resolvedHomeDirectory := resolver.resolveHomeDirectory()
	if len(resolvedHomeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildeSymbolConstant {
		return resolvedHomeDirectory
	}

	for _, prefix := range []string{tildeForwardSlashPrefixConstant, tildeSymbolConstant + string(os.PathSeparator)} {
		if strings.HasPrefix(candidatePath, prefix) {
			return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(candidatePath, prefix))
		}
	}

	return candidatePath
}

func (resolver *RepositoryRootResolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
