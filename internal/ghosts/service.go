package ghosts

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/ghostbuster/internal/exclusion"
	"github.com/temirov/ghostbuster/internal/report"
	"github.com/temirov/ghostbuster/internal/scanner"
	"github.com/temirov/ghostbuster/internal/submodules"
	pathutils "github.com/temirov/ghostbuster/internal/utils/path"
)

const (
	invalidRootTemplateConstant         = "%w: %s: %v"
	rootNotDirectoryTemplateConstant    = "%w: %s is not a valid directory"
	ghostsDetectedTemplateConstant      = "%w: %d of %d declared submodules are unreferenced"
	renderErrorTemplateConstant         = "unable to render report: %w"
	manifestResolvedMessageConstant     = "submodule manifest resolved"
	scanSummaryMessageConstant          = "ghost scan completed"
	exclusionPolicyMessageConstant      = "exclusion policy constructed"
	logFieldRepositoryRootConstant      = "repository_root"
	logFieldManifestPathConstant        = "manifest_path"
	logFieldSubmoduleCountConstant      = "submodules"
	logFieldGhostCountConstant          = "ghosts"
	logFieldFilesScannedConstant        = "files_scanned"
	logFieldFilesUnreadableConstant     = "files_unreadable"
	logFieldExcludedFilesConstant       = "excluded_filenames"
	logFieldExcludedDirectoriesConstant = "excluded_directories"
)

// Service coordinates manifest parsing, reference scanning, and report rendering.
type Service struct {
	logger       *zap.Logger
	rootResolver *pathutils.RepositoryRootResolver
	scanOptions  []scanner.Option
	outputWriter io.Writer
}

// NewService constructs a Service writing reports to outputWriter.
func NewService(logger *zap.Logger, outputWriter io.Writer, scanOptions ...scanner.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		logger:       logger,
		rootResolver: pathutils.NewRepositoryRootResolver(),
		scanOptions:  scanOptions,
		outputWriter: outputWriter,
	}
}

// Run validates the repository root, scans it for submodule references, and renders the report.
// In strict mode a scan that finds ghosts returns ErrGhostsDetected after the report is written.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (ScanOutcome, error) {
	repositoryRoot, rootError := service.validateRoot(options.RepositoryPath)
	if rootError != nil {
		return ScanOutcome{}, rootError
	}

	manifest, manifestError := submodules.LoadManifest(repositoryRoot)
	if manifestError != nil {
		return ScanOutcome{}, manifestError
	}

	service.logger.Info(
		manifestResolvedMessageConstant,
		zap.String(logFieldRepositoryRootConstant, repositoryRoot),
		zap.String(logFieldManifestPathConstant, manifest.Path),
		zap.Int(logFieldSubmoduleCountConstant, len(manifest.Submodules)),
	)

	policy := exclusion.NewPolicy(options.Exclusions)
	service.logger.Debug(
		exclusionPolicyMessageConstant,
		zap.Strings(logFieldExcludedFilesConstant, policy.Filenames()),
		zap.Strings(logFieldExcludedDirectoriesConstant, policy.Directories()),
	)

	scannerOptions := append([]scanner.Option{
		scanner.WithLogger(service.logger),
		scanner.WithWorkerCount(options.WorkerCount),
	}, service.scanOptions...)
	referenceScanner := scanner.NewScanner(policy, scannerOptions...)

	scanResult, scanError := referenceScanner.Scan(executionContext, repositoryRoot, manifest.Submodules)
	if scanError != nil {
		return ScanOutcome{}, scanError
	}

	outcome := ScanOutcome{
		RepositoryRoot: repositoryRoot,
		Manifest:       manifest,
		Result:         scanResult,
	}

	renderError := report.Render(service.outputWriter, report.Report{
		RepositoryRoot: repositoryRoot,
		ManifestPath:   manifest.Path,
		Submodules:     manifest.Submodules,
		Result:         scanResult,
	}, options.Format)
	if renderError != nil {
		return outcome, fmt.Errorf(renderErrorTemplateConstant, renderError)
	}

	ghostCount := outcome.GhostCount()
	service.logger.Info(
		scanSummaryMessageConstant,
		zap.String(logFieldRepositoryRootConstant, repositoryRoot),
		zap.Int(logFieldSubmoduleCountConstant, scanResult.Index.Len()),
		zap.Int(logFieldGhostCountConstant, ghostCount),
		zap.Int(logFieldFilesScannedConstant, scanResult.FilesScanned),
		zap.Int(logFieldFilesUnreadableConstant, scanResult.FilesUnreadable),
	)

	if options.Strict && ghostCount > 0 {
		return outcome, fmt.Errorf(ghostsDetectedTemplateConstant, ErrGhostsDetected, ghostCount, scanResult.Index.Len())
	}

	return outcome, nil
}

func (service *Service) validateRoot(repositoryPath string) (string, error) {
	repositoryRoot, resolveError := service.rootResolver.Resolve(repositoryPath)
	if resolveError != nil {
		return "", fmt.Errorf(invalidRootTemplateConstant, ErrInvalidArgument, repositoryPath, resolveError)
	}

	rootInfo, statError := os.Stat(repositoryRoot)
	if statError != nil || !rootInfo.IsDir() {
		return "", fmt.Errorf(rootNotDirectoryTemplateConstant, ErrInvalidArgument, repositoryRoot)
	}

	return repositoryRoot, nil
}
