// Package ghosts implements the ghost submodule scan workflow used by the
// ghostbuster CLI.
//
// It exposes CommandBuilder for wiring the scan Cobra command and Service for
// driving the workflow programmatically: repository root validation, manifest
// loading, exclusion policy construction, reference scanning, and rendering.
package ghosts
