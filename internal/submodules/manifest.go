package submodules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// GitModulesFileName is the version-control native manifest name.
	GitModulesFileName = ".gitmodules"

	// FallbackModulesFileName is the generic manifest consulted when GitModulesFileName is absent.
	FallbackModulesFileName = ".submodules"

	declarationKeyConstant             = "path"
	keyValueSeparatorConstant          = "="
	doubleQuoteConstant                = "\""
	singleQuoteConstant                = "'"
	maximumLineSizeBytesConstant       = 1024 * 1024
	initialLineBufferSizeBytesConstant = 64 * 1024
	manifestNotFoundTemplateConstant   = "%w: no %s or %s found in %s"
	manifestOpenErrorTemplateConstant  = "unable to open manifest %s: %w"
	manifestReadErrorTemplateConstant  = "unable to read manifest %s: %w"
	manifestStatErrorTemplateConstant  = "unable to inspect manifest candidate %s: %w"
	manifestScanErrorTemplateConstant  = "unable to scan manifest: %w"
)

// ErrManifestNotFound indicates that neither manifest candidate exists at the repository root.
var ErrManifestNotFound = errors.New("submodule manifest not found")

// SubmodulePath identifies a declared submodule location relative to the repository root.
type SubmodulePath string

// String returns the literal path value.
func (submodulePath SubmodulePath) String() string {
	return string(submodulePath)
}

// Manifest couples the resolved manifest file with the submodule paths it declares.
type Manifest struct {
	Path       string
	Submodules []SubmodulePath
}

// ManifestCandidates returns the manifest file names in lookup priority order.
func ManifestCandidates() []string {
	return []string{GitModulesFileName, FallbackModulesFileName}
}

// LocateManifest returns the path of the first manifest candidate present directly under repositoryRoot.
func LocateManifest(repositoryRoot string) (string, error) {
	for _, candidateName := range ManifestCandidates() {
		candidatePath := filepath.Join(repositoryRoot, candidateName)
		_, statError := os.Stat(candidatePath)
		if statError == nil {
			return candidatePath, nil
		}
		if !errors.Is(statError, fs.ErrNotExist) {
			return "", fmt.Errorf(manifestStatErrorTemplateConstant, candidatePath, statError)
		}
	}

	return "", fmt.Errorf(manifestNotFoundTemplateConstant, ErrManifestNotFound, GitModulesFileName, FallbackModulesFileName, repositoryRoot)
}

// LoadManifest locates the manifest under repositoryRoot and parses its declarations.
func LoadManifest(repositoryRoot string) (Manifest, error) {
	manifestPath, locateError := LocateManifest(repositoryRoot)
	if locateError != nil {
		return Manifest{}, locateError
	}

	submodulePaths, parseError := ParseManifestFile(manifestPath)
	if parseError != nil {
		return Manifest{}, parseError
	}

	return Manifest{Path: manifestPath, Submodules: submodulePaths}, nil
}

// ParseManifestFile reads the manifest at manifestPath and returns its declared submodule paths.
func ParseManifestFile(manifestPath string) ([]SubmodulePath, error) {
	manifestFile, openError := os.Open(manifestPath)
	if openError != nil {
		return nil, fmt.Errorf(manifestOpenErrorTemplateConstant, manifestPath, openError)
	}
	defer manifestFile.Close()

	submodulePaths, parseError := ParseManifest(manifestFile)
	if parseError != nil {
		return nil, fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, parseError)
	}
	return submodulePaths, nil
}

// ParseManifest extracts submodule paths from line-oriented manifest content.
// Declarations keep their file order and duplicates are preserved.
func ParseManifest(reader io.Reader) ([]SubmodulePath, error) {
	lineScanner := bufio.NewScanner(reader)
	lineScanner.Buffer(make([]byte, 0, initialLineBufferSizeBytesConstant), maximumLineSizeBytesConstant)

	submodulePaths := make([]SubmodulePath, 0)
	for lineScanner.Scan() {
		submodulePath, declared := parseDeclarationLine(lineScanner.Text())
		if !declared {
			continue
		}
		submodulePaths = append(submodulePaths, submodulePath)
	}

	if scanError := lineScanner.Err(); scanError != nil {
		return nil, fmt.Errorf(manifestScanErrorTemplateConstant, scanError)
	}

	return submodulePaths, nil
}

func parseDeclarationLine(rawLine string) (SubmodulePath, bool) {
	trimmedLine := strings.TrimSpace(rawLine)
	if !strings.HasPrefix(trimmedLine, declarationKeyConstant) {
		return "", false
	}

	_, value, separatorFound := strings.Cut(trimmedLine, keyValueSeparatorConstant)
	if !separatorFound {
		return "", false
	}

	value = unquote(strings.TrimSpace(value))
	if len(value) == 0 {
		return "", false
	}

	return SubmodulePath(value), true
}

func unquote(value string) string {
	for _, quote := range []string{doubleQuoteConstant, singleQuoteConstant} {
		if !strings.HasPrefix(value, quote) || !strings.HasSuffix(value, quote) {
			continue
		}
		if len(value) < 2 {
			return ""
		}
		return strings.TrimSpace(value[1 : len(value)-1])
	}
	return value
}
