package exclusion

import (
	"sort"
	"strings"
)

const (
	relativePathSeparatorConstant = "/"
	gitMetadataDirectoryConstant  = ".git"
)

var baselineFileNames = []string{
	".gitignore",
	".gitmodules",
	".submodules",
	"README.md",
	"readme.md",
	"Readme.md",
	"reader.md",
	"Reader.md",
}

var baselineDirectoryNames = []string{
	gitMetadataDirectoryConstant,
}

// Configuration lists user supplied exclusions merged on top of the baseline.
type Configuration struct {
	IgnoreFilenames   []string `mapstructure:"ignore_filenames"`
	IgnoreDirectories []string `mapstructure:"ignore_dirs"`
}

// Policy holds excluded file basenames and directory basenames. The zero value excludes nothing.
type Policy struct {
	fileNames      map[string]struct{}
	directoryNames map[string]struct{}
}

// DefaultPolicy returns a policy containing only the built-in exclusions.
func DefaultPolicy() Policy {
	return NewPolicy(Configuration{})
}

// NewPolicy unions the configured exclusions into the built-in baseline.
func NewPolicy(configuration Configuration) Policy {
	return Policy{
		fileNames:      buildNameSet(baselineFileNames, configuration.IgnoreFilenames),
		directoryNames: buildNameSet(baselineDirectoryNames, configuration.IgnoreDirectories),
	}
}

// Merge returns a new policy extended by the provided configuration; the receiver is unchanged.
func (policy Policy) Merge(configuration Configuration) Policy {
	return Policy{
		fileNames:      buildNameSet(setMembers(policy.fileNames), configuration.IgnoreFilenames),
		directoryNames: buildNameSet(setMembers(policy.directoryNames), configuration.IgnoreDirectories),
	}
}

// ExcludesFile reports whether a file basename is excluded.
func (policy Policy) ExcludesFile(fileName string) bool {
	_, excluded := policy.fileNames[fileName]
	return excluded
}

// ExcludesDirectory reports whether a directory basename is excluded.
func (policy Policy) ExcludesDirectory(directoryName string) bool {
	_, excluded := policy.directoryNames[directoryName]
	return excluded
}

// ExcludesRelativePath reports whether any segment of a slash separated relative path is an excluded directory name.
func (policy Policy) ExcludesRelativePath(relativePath string) bool {
	for _, segment := range strings.Split(relativePath, relativePathSeparatorConstant) {
		if policy.ExcludesDirectory(segment) {
			return true
		}
	}
	return false
}

// Filenames returns the excluded file basenames in sorted order.
func (policy Policy) Filenames() []string {
	return setMembers(policy.fileNames)
}

// Directories returns the excluded directory basenames in sorted order.
func (policy Policy) Directories() []string {
	return setMembers(policy.directoryNames)
}

func buildNameSet(groups ...[]string) map[string]struct{} {
	nameSet := make(map[string]struct{})
	for _, group := range groups {
		for _, rawName := range group {
			trimmedName := strings.TrimSpace(rawName)
			if len(trimmedName) == 0 {
				continue
			}
			nameSet[trimmedName] = struct{}{}
		}
	}
	return nameSet
}

func setMembers(nameSet map[string]struct{}) []string {
	members := make([]string, 0, len(nameSet))
	for name := range nameSet {
		members = append(members, name)
	}
	sort.Strings(members)
	return members
}
