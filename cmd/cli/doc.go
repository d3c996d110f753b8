// Package cli constructs the ghostbuster command-line interface, wiring the
// Cobra command hierarchy, the Viper-backed configuration loader, and zap
// logging. It exposes helpers to build reusable application instances and to
// execute the default command set.
package cli
