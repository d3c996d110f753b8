package ghosts

import (
	"errors"

	"github.com/temirov/ghostbuster/internal/exclusion"
	"github.com/temirov/ghostbuster/internal/report"
	"github.com/temirov/ghostbuster/internal/scanner"
	"github.com/temirov/ghostbuster/internal/submodules"
)

var (
	// ErrInvalidArgument indicates a wrong argument count or a repository root that is not a directory.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrGhostsDetected is returned in strict mode when at least one declared submodule is never referenced.
	ErrGhostsDetected = errors.New("ghost submodules detected")
)

// CommandOptions captures the parameters of a single scan.
type CommandOptions struct {
	RepositoryPath string
	Exclusions     exclusion.Configuration
	WorkerCount    int
	Format         report.Format
	Strict         bool
}

// ScanOutcome summarizes a completed scan for callers that need more than the rendered report.
type ScanOutcome struct {
	RepositoryRoot string
	Manifest       submodules.Manifest
	Result         scanner.ScanResult
}

// GhostCount returns the number of distinct declared paths without references.
func (outcome ScanOutcome) GhostCount() int {
	return len(outcome.Result.Index.Ghosts())
}
